package schema

import (
	"strings"
	"testing"
)

func TestParseDialect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{in: "sqlite", want: SQLite},
		{in: " Postgres ", want: Postgres},
		{in: "MSSQL", want: MSSQL},
		{in: "oracle", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDialect(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseDialect(%q) err=%v, wantErr=%v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseDialect(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCreateStatements_SQLiteItem(t *testing.T) {
	t.Parallel()

	stmts, err := CreateStatements(SQLite, Tables())
	if err != nil {
		t.Fatalf("CreateStatements: %v", err)
	}
	if len(stmts) != 3 {
		t.Fatalf("len=%d, want 3", len(stmts))
	}

	want := `CREATE TABLE IF NOT EXISTS "Item" (
  "ItemID" INTEGER NOT NULL,
  "Number_of_Bids" INTEGER NOT NULL,
  "First_Bid" REAL NOT NULL,
  "Currently" REAL NOT NULL,
  "Name" TEXT NOT NULL,
  "Buy_Price" REAL,
  "Started" TEXT NOT NULL,
  "Ends" TEXT NOT NULL,
  "SellerID" TEXT NOT NULL,
  "Description" TEXT NOT NULL,
  PRIMARY KEY ("ItemID")
);`
	if stmts[0] != want {
		t.Fatalf("Item DDL mismatch\n got: %s\nwant: %s", stmts[0], want)
	}
	if !strings.Contains(stmts[2], `"Category" TEXT NOT NULL REFERENCES "Category" ("Name")`) {
		t.Fatalf("Belongs DDL missing category reference: %s", stmts[2])
	}
}

func TestCreateStatements_Dialects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dialect Dialect
		table   int
		want    []string
	}{
		{
			dialect: Postgres,
			table:   0,
			want: []string{
				`CREATE TABLE IF NOT EXISTS "Item" (`,
				`"First_Bid" NUMERIC(12,2) NOT NULL`,
				`"Buy_Price" NUMERIC(12,2),`,
				`"Started" TIMESTAMP NOT NULL`,
			},
		},
		{
			dialect: Postgres,
			table:   2,
			want:    []string{`"ItemID" BIGINT NOT NULL REFERENCES "Item" ("ItemID")`},
		},
		{
			dialect: MSSQL,
			table:   1,
			want: []string{
				`IF OBJECT_ID(N'Category', N'U') IS NULL BEGIN CREATE TABLE [Category] (`,
				`[Name] NVARCHAR(450) NOT NULL`,
				`PRIMARY KEY ([Name])`,
				`); END;`,
			},
		},
		{
			dialect: MSSQL,
			table:   0,
			want: []string{
				`[Description] NVARCHAR(MAX) NOT NULL`,
				`[Ends] DATETIME2(0) NOT NULL`,
			},
		},
	}
	for _, tt := range tests {
		stmts, err := CreateStatements(tt.dialect, Tables())
		if err != nil {
			t.Fatalf("%s: %v", tt.dialect, err)
		}
		for _, w := range tt.want {
			if !strings.Contains(stmts[tt.table], w) {
				t.Fatalf("%s table %d: missing %q in\n%s", tt.dialect, tt.table, w, stmts[tt.table])
			}
		}
	}
}

func TestCreateStatements_QuotesHostileNames(t *testing.T) {
	t.Parallel()

	tables := []TableSpec{{Name: `we"ird]`, Columns: []ColumnSpec{{Name: "a", Type: Text}}}}

	pg, err := CreateStatements(Postgres, tables)
	if err != nil {
		t.Fatalf("postgres: %v", err)
	}
	if !strings.Contains(pg[0], `"we""ird]"`) {
		t.Fatalf("postgres ident not escaped: %s", pg[0])
	}

	ms, err := CreateStatements(MSSQL, tables)
	if err != nil {
		t.Fatalf("mssql: %v", err)
	}
	if !strings.Contains(ms[0], `[we"ird]]]`) {
		t.Fatalf("mssql ident not escaped: %s", ms[0])
	}
}

func TestCreateStatements_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dialect Dialect
		tables  []TableSpec
	}{
		{name: "unknown dialect", dialect: "db2", tables: Tables()},
		{name: "empty table name", dialect: SQLite, tables: []TableSpec{{Columns: []ColumnSpec{{Name: "a"}}}}},
		{name: "no columns", dialect: SQLite, tables: []TableSpec{{Name: "t"}}},
		{name: "unnamed column", dialect: Postgres, tables: []TableSpec{{Name: "t", Columns: []ColumnSpec{{Type: Text}}}}},
		{
			name:    "bad reference",
			dialect: MSSQL,
			tables:  []TableSpec{{Name: "t", Columns: []ColumnSpec{{Name: "a", References: "Item"}}}},
		},
	}
	for _, tt := range tests {
		if _, err := CreateStatements(tt.dialect, tt.tables); err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
	}
}

func TestLoadScript(t *testing.T) {
	t.Parallel()

	got, err := LoadScript(Tables())
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	want := `.separator |
.import Item.dat Item
.import Categories.dat Category
.import belong.dat Belongs
UPDATE "Item" SET "Buy_Price" = NULL WHERE "Buy_Price" = 'NULL';
`
	if got != want {
		t.Fatalf("LoadScript mismatch\n got: %q\nwant: %q", got, want)
	}

	if _, err := LoadScript([]TableSpec{{Name: "t", Columns: []ColumnSpec{{Name: "a"}}}}); err == nil {
		t.Fatalf("expected error for table without extract file")
	}
}
