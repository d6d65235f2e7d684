package main

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printInfo prints human readable status unless --quiet or --json is set.
func (a *appContext) printInfo(cmd *cobra.Command, format string, args ...any) {
	if !a.quiet && !a.jsonOut {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
	}
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// printTable renders rows as a table, or as a JSON array of objects keyed by
// header when --json is set.
func (a *appContext) printTable(cmd *cobra.Command, headers []string, rows [][]string, aligns []columnAlignment) error {
	if a.jsonOut {
		out := make([]map[string]string, len(rows))
		for i, row := range rows {
			m := make(map[string]string, len(headers))
			for j, h := range headers {
				if j < len(row) {
					m[h] = row[j]
				}
			}
			out[i] = m
		}
		return writeJSON(cmd, out)
	}
	if a.quiet {
		return nil
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
	return err
}
