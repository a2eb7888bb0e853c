package pipeline

import (
	"strconv"
	"strings"
)

// Operator is a filter comparison.
type Operator string

const (
	Equals      Operator = "equals"
	NotEquals   Operator = "notEquals"
	Contains    Operator = "contains"
	StartsWith  Operator = "startsWith"
	EndsWith    Operator = "endsWith"
	GreaterThan Operator = "greaterThan"
	LessThan    Operator = "lessThan"
)

// Logic joins a criterion to the result of every criterion before it.
type Logic string

const (
	And Logic = "AND"
	Or  Logic = "OR"
)

// FilterCriterion is one row predicate.
type FilterCriterion struct {
	Column   string   `json:"column"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
	Logic    Logic    `json:"logic,omitempty"`
}

// Matches evaluates the criterion against a single row. String operators
// compare the string forms exactly; greaterThan and lessThan parse both
// sides as floats and are false when either side is not numeric.
func (f FilterCriterion) Matches(row Row) bool {
	cell := stringOf(row[f.Column])
	want := stringOf(f.Value)
	switch f.Operator {
	case Equals:
		return cell == want
	case NotEquals:
		return cell != want
	case Contains:
		return strings.Contains(cell, want)
	case StartsWith:
		return strings.HasPrefix(cell, want)
	case EndsWith:
		return strings.HasSuffix(cell, want)
	case GreaterThan, LessThan:
		a, ok := parseFloat(row[f.Column])
		if !ok {
			return false
		}
		b, ok := parseFloat(f.Value)
		if !ok {
			return false
		}
		if f.Operator == GreaterThan {
			return a > b
		}
		return a < b
	}
	return false
}

// Evaluate folds criteria left to right. The first criterion seeds the
// result; each later criterion is combined with the running result using its
// own Logic, so [A, B(OR), C(AND)] evaluates as ((A || B) && C). An empty
// list keeps every row. Logic other than OR is treated as AND.
func Evaluate(criteria []FilterCriterion, row Row) bool {
	if len(criteria) == 0 {
		return true
	}
	result := criteria[0].Matches(row)
	for _, c := range criteria[1:] {
		m := c.Matches(row)
		if strings.EqualFold(string(c.Logic), string(Or)) {
			result = result || m
		} else {
			result = result && m
		}
	}
	return result
}

func filter(rows []Row, criteria []FilterCriterion) []Row {
	if len(criteria) == 0 {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if Evaluate(criteria, row) {
			out = append(out, row)
		}
	}
	return out
}

func parseFloat(v any) (float64, bool) {
	if f, ok := numberOf(v); ok {
		return f, true
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
