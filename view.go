package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"datatable/pipeline"
)

type viewFlags struct {
	rows         string
	search       string
	searchFields []string
	filters      []string
	sorts        []string
	groupBy      string
	numeric      []string
	columns      []string
}

func newViewCmd(flags *rootFlags) *cobra.Command {
	vf := &viewFlags{}
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Render rows through the table's search, filter, sort and grouping",
		Long: `Read rows from a JSON or YAML file (or stdin with "-") and print them the
way the table shows them. Without query flags the search, filters, sorts and
grouping stored in the table's active configuration are used.

Filters read "[and|or] <column> <operator> <value>"; operators are equals,
notEquals, contains, startsWith, endsWith, greaterThan and lessThan. Sorts
read "<column>[:asc|:desc]".`,
		Example: `  datatable view --rows orders.json
  datatable view --rows orders.yaml --sort status --sort total:desc --group region
  datatable view --rows - --filter "status equals open" --filter "or total greaterThan 100"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, flags, vf)
		},
	}
	cmd.Flags().StringVar(&vf.rows, "rows", "", "JSON or YAML file holding a list of rows, or - for stdin (JSON)")
	cmd.Flags().StringVar(&vf.search, "search", "", "Case-insensitive search term")
	cmd.Flags().StringSliceVar(&vf.searchFields, "search-field", nil, "Field searched (repeatable; default all fields)")
	cmd.Flags().StringArrayVar(&vf.filters, "filter", nil, "Filter criterion (repeatable)")
	cmd.Flags().StringArrayVar(&vf.sorts, "sort", nil, "Sort criterion (repeatable)")
	cmd.Flags().StringVar(&vf.groupBy, "group", "", "Column to group by")
	cmd.Flags().StringSliceVar(&vf.numeric, "numeric", nil, "Columns sorted numerically")
	cmd.Flags().StringSliceVar(&vf.columns, "columns", nil, "Columns to print")
	_ = cmd.MarkFlagRequired("rows")
	return cmd
}

func runView(cmd *cobra.Command, flags *rootFlags, vf *viewFlags) error {
	rows, err := readRows(vf.rows, cmd.InOrStdin())
	if err != nil {
		return err
	}
	override, err := vf.query()
	if err != nil {
		return err
	}

	a, err := newApp(cmd, flags)
	if err != nil {
		return err
	}
	defer a.Close()
	s, err := a.openTable(flags, nil)
	if err != nil {
		return err
	}
	if override != nil && override.Locale == "" {
		override.Locale = a.cfg.Locale
	}

	res := s.View(rows, override)
	fmt.Fprint(cmd.OutOrStdout(), renderView(res, s.Display(), vf.columns))
	return nil
}

// query builds the override query, or nil when no query flag was given.
func (vf *viewFlags) query() (*pipeline.Query, error) {
	if vf.search == "" && len(vf.filters) == 0 && len(vf.sorts) == 0 && vf.groupBy == "" && len(vf.numeric) == 0 {
		return nil, nil
	}
	q := &pipeline.Query{
		Search:         vf.search,
		SearchFields:   vf.searchFields,
		GroupBy:        vf.groupBy,
		NumericColumns: vf.numeric,
	}
	for _, f := range vf.filters {
		c, err := parseFilter(f)
		if err != nil {
			return nil, err
		}
		q.Filters = append(q.Filters, c)
	}
	for _, s := range vf.sorts {
		q.Sorts = append(q.Sorts, parseSort(s))
	}
	return q, nil
}

func parseFilter(s string) (pipeline.FilterCriterion, error) {
	fields := strings.Fields(s)
	logic := pipeline.And
	if len(fields) > 0 {
		switch strings.ToLower(fields[0]) {
		case "and":
			fields = fields[1:]
		case "or":
			logic = pipeline.Or
			fields = fields[1:]
		}
	}
	if len(fields) < 2 {
		return pipeline.FilterCriterion{}, fmt.Errorf("invalid filter %q: want [and|or] <column> <operator> <value>", s)
	}
	return pipeline.FilterCriterion{
		Column:   fields[0],
		Operator: pipeline.Operator(fields[1]),
		Value:    strings.Join(fields[2:], " "),
		Logic:    logic,
	}, nil
}

func parseSort(s string) pipeline.SortCriterion {
	col, order, found := strings.Cut(s, ":")
	if found && strings.EqualFold(order, string(pipeline.Desc)) {
		return pipeline.SortCriterion{Column: col, Order: pipeline.Desc}
	}
	return pipeline.SortCriterion{Column: col, Order: pipeline.Asc}
}

func readRows(path string, stdin io.Reader) ([]pipeline.Row, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var rows []pipeline.Row
	if isYAML(path) {
		err = yaml.Unmarshal(data, &rows)
	} else {
		err = json.Unmarshal(data, &rows)
	}
	if err != nil {
		return nil, fmt.Errorf("parse rows: %w", err)
	}
	return rows, nil
}
