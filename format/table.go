// Package format renders query results as tables and class summaries
// as colorized one-liners for the reference CLI, ported from the teacher's
// datalog/executor table/string formatting (SPEC_FULL.md §2.9).
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/arvihall/spine"
)

// Table renders headers and rows as a Markdown table, mirroring
// datalog/executor/table_formatter.go's formatTable.
func Table(headers []string, rows [][]interface{}) string {
	if len(rows) == 0 {
		return fmt.Sprintf("_Columns: %v_\n\n_No rows_", headers)
	}

	var b strings.Builder
	alignment := make([]tw.Align, len(headers))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(&b,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(headers)
	for _, row := range rows {
		rendered := make([]string, len(row))
		for i, v := range row {
			rendered[i] = formatValue(v)
		}
		table.Append(rendered)
	}
	table.Render()
	b.WriteString(fmt.Sprintf("\n_%d rows_\n", len(rows)))
	return b.String()
}

// ObjectsTable renders a vector of objects as a single-column table.
func ObjectsTable(label string, objs []*spine.Object) string {
	rows := make([][]interface{}, len(objs))
	for i, o := range objs {
		rows[i] = []interface{}{o}
	}
	return Table([]string{label}, rows)
}

// RowsTable renders relationship rows (label -> Object tuples) as a
// table with one column per label, in the given column order.
func RowsTable(labels []string, rows []map[string]*spine.Object) string {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		r := make([]interface{}, len(labels))
		for j, l := range labels {
			r[j] = row[l]
		}
		out[i] = r
	}
	return Table(labels, out)
}

func formatValue(val interface{}) string {
	if val == nil {
		return "nothing"
	}
	switch v := val.(type) {
	case string:
		return v
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%.4g", v)
	case bool:
		return fmt.Sprintf("%t", v)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Summary renders a compact, colorized one-line description of a
// class for interactive/REPL use, ported from the teacher's
// MaterializedRelation.String() (count-colored by size band, class
// name in blue/cyan).
func Summary(kind, name string, count int) string {
	var countStr string
	switch {
	case count == 0:
		countStr = color.RedString("%d", count)
	case count < 100:
		countStr = color.GreenString("%d", count)
	case count < 10000:
		countStr = color.YellowString("%d", count)
	default:
		countStr = color.RedString("%d", count)
	}
	return fmt.Sprintf("%s%s%s%s %s",
		color.BlueString(kind+"("),
		color.CyanString(name),
		color.BlueString(", "),
		countStr,
		color.BlueString("entities)"))
}
