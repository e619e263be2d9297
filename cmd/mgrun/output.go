package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	mgclient "github.com/memgraph/mgclient-go"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.Faint)
)

func printSuccess(message string) {
	fmt.Println(successColor.Sprint("✓") + " " + message)
}

func printError(message string) {
	fmt.Fprintln(os.Stderr, errorColor.Sprint("✗")+" "+message)
}

// printResult renders records as a fixed-width table, one line per row.
func printResult(columns []string, records []mgclient.Record) {
	if len(columns) == 0 {
		return
	}

	widths := make([]int, len(columns))
	for i, name := range columns {
		widths[i] = len(name)
	}
	rows := make([][]string, len(records))
	for r, rec := range records {
		row := make([]string, len(columns))
		for i := range columns {
			if i < len(rec.Values) {
				row[i] = rec.Values[i].String()
			}
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
		rows[r] = row
	}

	headerColor.Println(strings.Join(pad(columns, widths), "  "))
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("─", w)
	}
	dimColor.Println(strings.Join(sep, "  "))
	for _, row := range rows {
		fmt.Println(strings.Join(pad(row, widths), "  "))
	}
	fmt.Println()
}

func pad(cells []string, widths []int) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = fmt.Sprintf("%-*s", widths[i], cell)
	}
	return out
}

func printStats(info *mgclient.SummaryInfo) {
	var parts []string
	if info.Type != "" {
		parts = append(parts, "type "+info.Type)
	}
	counters := []struct {
		n    int64
		unit string
	}{
		{info.Stats.NodesCreated, "node(s) created"},
		{info.Stats.NodesDeleted, "node(s) deleted"},
		{info.Stats.RelationshipsCreated, "relationship(s) created"},
		{info.Stats.RelationshipsDeleted, "relationship(s) deleted"},
		{info.Stats.PropertiesSet, "propert(ies) set"},
		{info.Stats.LabelsAdded, "label(s) added"},
		{info.Stats.LabelsRemoved, "label(s) removed"},
	}
	for _, c := range counters {
		if c.n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c.n, c.unit))
		}
	}
	if info.PlanExecutionTime > 0 {
		parts = append(parts, fmt.Sprintf("executed in %.3fs", info.PlanExecutionTime))
	}
	if len(parts) > 0 {
		dimColor.Println(strings.Join(parts, ", "))
	}
}
