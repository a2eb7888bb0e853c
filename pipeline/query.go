package pipeline

import (
	"encoding/json"

	"datatable/tableconfig"
)

// QueryFromConfig reads the view state persisted in a table configuration:
// search term, filter criteria, sort criteria and group key. Malformed
// entries are skipped.
func QueryFromConfig(c tableconfig.Config) Query {
	q := Query{
		Search:  tableconfig.String(c, tableconfig.KeySearch, ""),
		GroupBy: tableconfig.String(c, tableconfig.KeyGroupBy, ""),
	}
	decodeList(c[tableconfig.KeyFilters], &q.Filters)
	decodeList(c[tableconfig.KeySorts], &q.Sorts)
	return q
}

func decodeList[T any](v any, dst *[]T) {
	list, ok := v.([]any)
	if !ok {
		return
	}
	for _, e := range list {
		data, err := json.Marshal(e)
		if err != nil {
			continue
		}
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			continue
		}
		*dst = append(*dst, item)
	}
}
