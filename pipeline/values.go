package pipeline

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/collate"
)

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// SortCriterion is one level of the sort cascade.
type SortCriterion struct {
	Column string `json:"column"`
	Order  Order  `json:"order"`
}

// stringOf renders a cell the way it is displayed: nil is empty, numbers use
// the shortest exact form.
func stringOf(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func numberOf(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// compareValues orders two cells. Numeric comparison is used when the column
// is declared numeric or both cells hold numbers; anything unparsable counts
// as 0. Otherwise the string forms are collated, with missing cells as "".
func compareValues(a, b any, numeric bool, coll *collate.Collator) int {
	na, aNum := numberOf(a)
	nb, bNum := numberOf(b)
	if numeric || (aNum && bNum) {
		if !aNum {
			na, _ = parseFloat(a)
		}
		if !bNum {
			nb, _ = parseFloat(b)
		}
		return compareFloat(na, nb)
	}
	return coll.CompareString(stringOf(a), stringOf(b))
}

func compareFloat(a, b float64) int {
	if math.IsNaN(a) {
		a = 0
	}
	if math.IsNaN(b) {
		b = 0
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
