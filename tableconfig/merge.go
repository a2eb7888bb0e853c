package tableconfig

// Merge computes the configuration that results from switching to a preset.
// Every non-sticky key takes its value from incoming; every sticky key that
// current defines keeps the current value, whether or not incoming defines it.
// Neither argument is modified and the result aliases neither.
func Merge(current, incoming Config, sticky KeySet) Config {
	out := Clone(incoming)
	if out == nil {
		out = Config{}
	}
	for key := range sticky.keys {
		if v, ok := current[key]; ok {
			out[key] = cloneValue(v)
		}
	}
	return out
}
