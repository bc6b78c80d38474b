// Package query implements the free-form SQL surface: arbitrary SELECT
// text is executed against the store's database handle and decoded into
// a dynamically typed ValuesTable, independent of record.File's fixed
// schema, so a query selecting any subset (or superset, via joins) of
// columns still decodes.
package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrUnknownColumnType is returned when the engine reports a column
// type this package has no mapping for.
var ErrUnknownColumnType = errors.New("unhandled column type")

// CellKind tags which Go representation a Cell holds.
type CellKind int

const (
	CellNull CellKind = iota
	CellBool
	CellInt
	CellFloat32
	CellFloat64
	CellText
	CellBytes
)

// Cell is one dynamically typed query result value.
type Cell struct {
	Kind  CellKind
	Bool  bool
	Int   int64
	F32   float32
	F64   float64
	Text  string
	Bytes []byte
}

// ValuesTable is the sole structured hand-off to presentation
// collaborators (table/CSV/JSON/xargs).
type ValuesTable struct {
	Columns   []string
	Rows      [][]Cell
	TotalRows int64
}

// Query executes sqlText and returns the decoded ValuesTable. TotalRows
// is computed separately as count(*) over the files table — a reference
// denominator, not the query's own row count.
func Query(ctx context.Context, db *sql.DB, sqlText string, args ...any) (*ValuesTable, error) {
	rows, err := db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("column types: %w", err)
	}

	table := &ValuesTable{Columns: cols}
	for rows.Next() {
		raw := make([]any, len(cols))
		for i := range raw {
			raw[i] = new(any)
		}
		if err := rows.Scan(raw...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		row := make([]Cell, len(cols))
		for i, v := range raw {
			cell, err := decodeCell(types[i].DatabaseTypeName(), *(v.(*any)))
			if err != nil {
				return nil, err
			}
			row[i] = cell
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	total, err := totalRows(ctx, db)
	if err != nil {
		return nil, err
	}
	table.TotalRows = total

	return table, nil
}

func totalRows(ctx context.Context, db *sql.DB) (int64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, "SELECT count(*) FROM files;").Scan(&n); err != nil {
		return 0, fmt.Errorf("total rows: %w", err)
	}
	return n, nil
}

// decodeCell maps one driver value to a Cell using the engine type name
// as the type signal, following spec's BOOLEAN/INTEGER/FLOAT/DOUBLE/
// DATE-TIME/TEXT/BLOB table.
func decodeCell(dbType string, v any) (Cell, error) {
	if v == nil {
		return Cell{Kind: CellNull}, nil
	}

	switch normalizeType(dbType) {
	case "BOOLEAN":
		return Cell{Kind: CellBool, Bool: toBool(v)}, nil
	case "INTEGER", "YEAR":
		return Cell{Kind: CellInt, Int: toInt64(v)}, nil
	case "FLOAT":
		return Cell{Kind: CellFloat32, F32: float32(toFloat64(v))}, nil
	case "DOUBLE":
		return Cell{Kind: CellFloat64, F64: toFloat64(v)}, nil
	case "DATETIME":
		return Cell{Kind: CellText, Text: toText(v)}, nil
	case "TEXT":
		return Cell{Kind: CellText, Text: toText(v)}, nil
	case "BLOB":
		b, ok := v.([]byte)
		if !ok {
			return Cell{}, fmt.Errorf("%w: %s (expected blob)", ErrUnknownColumnType, dbType)
		}
		return Cell{Kind: CellBytes, Bytes: b}, nil
	default:
		return Cell{}, fmt.Errorf("%w: %s", ErrUnknownColumnType, dbType)
	}
}

// normalizeType folds the driver's many concrete type-name spellings
// down to the buckets in spec's type table.
func normalizeType(dbType string) string {
	switch dbType {
	case "BOOLEAN", "BOOL":
		return "BOOLEAN"
	case "INT", "INTEGER", "TINYINT", "SMALLINT", "MEDIUMINT", "BIGINT",
		"UNSIGNED BIG INT", "INT2", "INT8":
		return "INTEGER"
	case "YEAR":
		return "YEAR"
	case "FLOAT":
		return "FLOAT"
	case "DOUBLE", "DOUBLE PRECISION", "REAL", "NUMERIC", "DECIMAL":
		return "DOUBLE"
	case "DATE", "TIME", "DATETIME", "TIMESTAMP":
		return "DATETIME"
	case "GEOMETRY", "JSON", "CHAR", "VARCHAR", "TEXT", "NCHAR", "NVARCHAR", "CLOB", "":
		return "TEXT"
	case "BLOB", "BINARY", "VARBINARY":
		return "BLOB"
	default:
		if len(dbType) >= 4 && dbType[len(dbType)-4:] == "TEXT" {
			return "TEXT"
		}
		if len(dbType) >= 4 && dbType[len(dbType)-4:] == "BLOB" {
			return "BLOB"
		}
		return dbType
	}
}

func toBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int64:
		return t != 0
	case string:
		return t == "1" || t == "true"
	default:
		return false
	}
}

func toInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case float64:
		return int64(t)
	case []byte:
		var n int64
		fmt.Sscanf(string(t), "%d", &n)
		return n
	case string:
		var n int64
		fmt.Sscanf(t, "%d", &n)
		return n
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case []byte:
		var f float64
		fmt.Sscanf(string(t), "%g", &f)
		return f
	case string:
		var f float64
		fmt.Sscanf(t, "%g", &f)
		return f
	default:
		return 0
	}
}

func toText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
