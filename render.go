package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"datatable/pipeline"
	"datatable/preset"
	"datatable/tableconfig"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	groupStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	stripeStyle = cellStyle.Foreground(lipgloss.Color("8"))
)

func renderPresets(list []preset.Preset, activeID string, recent []string) string {
	rank := make(map[string]int, len(recent))
	for i, id := range recent {
		rank[id] = i + 1
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "ID", "NAME", "KIND", "RECENT").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, p := range list {
		marker, kind, recentCol := "", "custom", ""
		if p.ID == activeID {
			marker = "*"
		}
		if p.IsSystem {
			kind = "system"
		}
		if n, ok := rank[p.ID]; ok {
			recentCol = strconv.Itoa(n)
		}
		t.Row(marker, p.ID, p.Name, kind, recentCol)
	}

	var b strings.Builder
	b.WriteString(t.String())
	b.WriteByte('\n')
	if _, ok := preset.Find(list, activeID); !ok && activeID != "" {
		b.WriteString(metaStyle.Render(fmt.Sprintf("Active preset %s no longer exists.", activeID)))
		b.WriteByte('\n')
	}
	return b.String()
}

// renderView draws res with the display options of d. Grouped results get
// one table per group.
func renderView(res pipeline.Result, d tableconfig.Display, columns []string) string {
	if len(columns) == 0 {
		columns = d.Columns
	}
	if len(columns) == 0 {
		columns = columnsOf(res.Rows)
	}

	var b strings.Builder
	if d.ShowTitle && d.Title != "" {
		b.WriteString(titleStyle.Render(d.Title))
		b.WriteByte('\n')
	}
	if len(res.Groups) == 0 {
		b.WriteString(rowsTable(columns, res.Rows, d))
		b.WriteByte('\n')
	}
	for _, g := range res.Groups {
		b.WriteString(groupStyle.Render(fmt.Sprintf("%s (%d)", g.Key, len(g.Rows))))
		b.WriteByte('\n')
		b.WriteString(rowsTable(columns, g.Rows, d))
		b.WriteByte('\n')
	}
	b.WriteString(metaStyle.Render(fmt.Sprintf("%d of %d rows", res.Matched, res.Total)))
	b.WriteByte('\n')
	return b.String()
}

func rowsTable(columns []string, rows []pipeline.Row, d tableconfig.Display) string {
	border := lipgloss.HiddenBorder()
	if d.Bordered {
		border = lipgloss.NormalBorder()
	}
	pad := 1
	if d.Dense {
		pad = 0
	}
	t := table.New().
		Border(border).
		Headers(columns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case d.Striped && row%2 == 0:
				return stripeStyle.Padding(0, pad)
			default:
				return cellStyle.Padding(0, pad)
			}
		})
	for _, r := range rows {
		cells := make([]string, len(columns))
		for i, c := range columns {
			cells[i] = cellString(r[c])
		}
		t.Row(cells...)
	}
	return t.String()
}

// columnsOf returns every field name used by rows, sorted.
func columnsOf(rows []pipeline.Row) []string {
	seen := map[string]bool{}
	var cols []string
	for _, r := range rows {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
