package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type column struct {
	title string
	right bool
}

// renderTable lays rows out under columns. Rows listed in highlight are
// drawn in red when color is set.
func renderTable(columns []column, rows [][]string, highlight map[int]bool, color bool) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.title
		align := text.AlignLeft
		if col.right {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	failed := text.Colors{text.FgRed}
	for n, row := range rows {
		r := make(table.Row, len(columns))
		for i := range columns {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			if color && highlight[n] {
				cell = failed.Sprint(cell)
			}
			r[i] = cell
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}
