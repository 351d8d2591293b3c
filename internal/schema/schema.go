// Package schema describes the destination tables of the extracts and renders
// their DDL for the supported SQL dialects, plus a sqlite3 shell script that
// bulk loads the .dat files.
//
// Column order of every table matches the field order of the matching
// extract file, so the files can be imported positionally.
package schema

import (
	"fmt"
	"strings"

	"auctionetl/internal/relation"
)

// Type is a dialect-neutral column type.
type Type int

const (
	Integer   Type = iota // whole numbers (identifiers, bid counts)
	Money                 // decimal amounts as produced by the dollar normalizer
	Label                 // short text that may be part of a key
	Text                  // unbounded text
	Timestamp             // YYYY-MM-DD HH:MM:SS
)

// TableSpec is one destination table.
type TableSpec struct {
	Name       string
	File       string // extract file loaded into this table
	Columns    []ColumnSpec
	PrimaryKey []string
}

// ColumnSpec is one column of a TableSpec.
type ColumnSpec struct {
	Name     string
	Type     Type
	Nullable bool

	// References is "Table(Column)" for a foreign key, empty otherwise.
	References string
}

// Table names.
const (
	ItemTable     = "Item"
	CategoryTable = "Category"
	BelongsTable  = "Belongs"
)

// Tables returns the destination tables in creation (and load) order:
// referenced tables first.
func Tables() []TableSpec {
	return []TableSpec{
		{
			Name: ItemTable,
			File: relation.ItemFile,
			Columns: []ColumnSpec{
				{Name: "ItemID", Type: Integer},
				{Name: "Number_of_Bids", Type: Integer},
				{Name: "First_Bid", Type: Money},
				{Name: "Currently", Type: Money},
				{Name: "Name", Type: Text},
				{Name: "Buy_Price", Type: Money, Nullable: true},
				{Name: "Started", Type: Timestamp},
				{Name: "Ends", Type: Timestamp},
				{Name: "SellerID", Type: Label},
				{Name: "Description", Type: Text},
			},
			PrimaryKey: []string{"ItemID"},
		},
		{
			Name:       CategoryTable,
			File:       relation.CategoryFile,
			Columns:    []ColumnSpec{{Name: "Name", Type: Label}},
			PrimaryKey: []string{"Name"},
		},
		{
			Name: BelongsTable,
			File: relation.BelongFile,
			Columns: []ColumnSpec{
				{Name: "ItemID", Type: Integer, References: ItemTable + "(ItemID)"},
				{Name: "Category", Type: Label, References: CategoryTable + "(Name)"},
			},
		},
	}
}

// Dialect selects the SQL flavor DDL is rendered for.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
	MSSQL    Dialect = "mssql"
)

// ParseDialect validates a dialect name (case-insensitive).
func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(s))); d {
	case SQLite, Postgres, MSSQL:
		return d, nil
	default:
		return "", fmt.Errorf("schema: unsupported dialect %q (want sqlite, postgres or mssql)", s)
	}
}

// CreateStatements renders one CREATE TABLE statement per table, in order.
//
// Errors:
//   - unknown dialect
//   - a table without a name or without columns
//   - a column without a name, or with a malformed reference
func CreateStatements(d Dialect, tables []TableSpec) ([]string, error) {
	var build func(TableSpec) (string, error)
	switch d {
	case SQLite:
		build = buildSQLite
	case Postgres:
		build = buildPostgres
	case MSSQL:
		build = buildMSSQL
	default:
		return nil, fmt.Errorf("schema: unsupported dialect %q", d)
	}

	out := make([]string, 0, len(tables))
	for _, t := range tables {
		if err := validate(t); err != nil {
			return nil, err
		}
		stmt, err := build(t)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func validate(t TableSpec) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("schema: table name is empty")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("schema: table %s: no columns", t.Name)
	}
	for i, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("schema: table %s: column %d has no name", t.Name, i)
		}
		if c.References != "" {
			if _, _, ok := splitReference(c.References); !ok {
				return fmt.Errorf("schema: table %s: column %s: bad reference %q (want Table(Column))", t.Name, c.Name, c.References)
			}
		}
	}
	return nil
}

// columnDefs renders the column list and table constraints shared by every
// dialect; ident quotes identifiers and typeName maps column types.
func columnDefs(t TableSpec, ident func(string) string, typeName func(Type) string) []string {
	parts := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		col := ident(c.Name) + " " + typeName(c.Type)
		if !c.Nullable {
			col += " NOT NULL"
		}
		if c.References != "" {
			table, column, _ := splitReference(c.References)
			col += " REFERENCES " + ident(table) + " (" + ident(column) + ")"
		}
		parts = append(parts, col)
	}
	if len(t.PrimaryKey) > 0 {
		cols := make([]string, len(t.PrimaryKey))
		for i, c := range t.PrimaryKey {
			cols[i] = ident(c)
		}
		parts = append(parts, "PRIMARY KEY ("+strings.Join(cols, ", ")+")")
	}
	return parts
}

// splitReference splits "Table(Column)"; ok is false for any other shape.
func splitReference(ref string) (table, column string, ok bool) {
	open := strings.IndexByte(ref, '(')
	if open <= 0 || !strings.HasSuffix(ref, ")") {
		return "", "", false
	}
	table = strings.TrimSpace(ref[:open])
	column = strings.TrimSpace(ref[open+1 : len(ref)-1])
	return table, column, table != "" && column != ""
}
