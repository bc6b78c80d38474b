// Package render holds the presentation encoders for a ValuesTable:
// an interactive ASCII table, CSV, JSON, and a newline-joined xargs
// list. These sit outside the engine's scope proper (spec.md §1 names
// presentational output as an external collaborator) but are shipped
// here so the CLI is runnable end-to-end.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"github.com/reconscan/recon/internal/query"
)

// Table renders a ValuesTable as an ASCII table. When stdout is not a
// terminal, the CI environment variable is set, or noStyle is true
// (the --no-style flag), it falls back to a compact, uncolored
// rendering so output stays diffable in CI logs.
func Table(w io.Writer, t *query.ValuesTable, noStyle bool) {
	compact := noStyle || os.Getenv("CI") != "" || !isatty.IsTerminal(os.Stdout.Fd())

	tw := tablewriter.NewWriter(w)
	tw.SetHeader(t.Columns)
	if compact {
		tw.SetAutoFormatHeaders(false)
		tw.SetBorder(false)
		tw.SetRowLine(false)
		color.NoColor = true
	}

	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = cellString(c)
		}
		tw.Append(cells)
	}
	tw.Render()

	fmt.Fprintf(w, "total_rows: %d\n", t.TotalRows)
}

// CSV renders a ValuesTable as CSV, header row first.
func CSV(w io.Writer, t *query.ValuesTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for i, c := range row {
			rec[i] = cellString(c)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSON renders a ValuesTable as a JSON array of column->value objects.
func JSON(w io.Writer, t *query.ValuesTable) error {
	rows := make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		obj := make(map[string]any, len(t.Columns))
		for i, col := range t.Columns {
			obj[col] = cellValue(row[i])
		}
		rows = append(rows, obj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// Xargs renders the first column of every row, newline-joined, for
// piping into xargs.
func Xargs(w io.Writer, t *query.ValuesTable) error {
	for _, row := range t.Rows {
		if len(row) == 0 {
			continue
		}
		if _, err := fmt.Fprintln(w, cellString(row[0])); err != nil {
			return err
		}
	}
	return nil
}

func cellString(c query.Cell) string {
	switch c.Kind {
	case query.CellNull:
		return ""
	case query.CellBool:
		return fmt.Sprintf("%t", c.Bool)
	case query.CellInt:
		return fmt.Sprintf("%d", c.Int)
	case query.CellFloat32:
		return fmt.Sprintf("%g", c.F32)
	case query.CellFloat64:
		return fmt.Sprintf("%g", c.F64)
	case query.CellText:
		return c.Text
	case query.CellBytes:
		return fmt.Sprintf("%x", c.Bytes)
	default:
		return ""
	}
}

func cellValue(c query.Cell) any {
	switch c.Kind {
	case query.CellNull:
		return nil
	case query.CellBool:
		return c.Bool
	case query.CellInt:
		return c.Int
	case query.CellFloat32:
		return c.F32
	case query.CellFloat64:
		return c.F64
	case query.CellText:
		return c.Text
	case query.CellBytes:
		return c.Bytes
	default:
		return nil
	}
}
