package schema

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

func sqliteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func sqliteType(t Type) string {
	switch t {
	case Integer:
		return "INTEGER"
	case Money:
		return "REAL"
	default:
		// sqlite has no dedicated timestamp type; text sorts correctly in
		// YYYY-MM-DD HH:MM:SS form.
		return "TEXT"
	}
}

func buildSQLite(t TableSpec) (string, error) {
	parts := columnDefs(t, sqliteIdent, sqliteType)
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		sqliteIdent(t.Name), strings.Join(parts, ",\n  ")), nil
}

func pgIdent(id string) string {
	return pgx.Identifier{id}.Sanitize()
}

func pgType(t Type) string {
	switch t {
	case Integer:
		return "BIGINT"
	case Money:
		return "NUMERIC(12,2)"
	case Timestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

func buildPostgres(t TableSpec) (string, error) {
	parts := columnDefs(t, pgIdent, pgType)
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		pgIdent(t.Name), strings.Join(parts, ",\n  ")), nil
}

func mssqlIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func mssqlType(t Type) string {
	switch t {
	case Integer:
		return "BIGINT"
	case Money:
		return "DECIMAL(12,2)"
	case Timestamp:
		return "DATETIME2(0)"
	case Label:
		// Key columns are limited to 900 bytes.
		return "NVARCHAR(450)"
	default:
		return "NVARCHAR(MAX)"
	}
}

// buildMSSQL guards the CREATE with OBJECT_ID since SQL Server has no
// CREATE TABLE IF NOT EXISTS.
func buildMSSQL(t TableSpec) (string, error) {
	parts := columnDefs(t, mssqlIdent, mssqlType)
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL BEGIN CREATE TABLE %s (\n  %s\n); END;",
		strings.ReplaceAll(t.Name, "'", "''"), mssqlIdent(t.Name), strings.Join(parts, ",\n  ")), nil
}
