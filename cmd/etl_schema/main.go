// Command etl_schema prints the DDL of the tables the etl extracts load into.
//
// Usage:
//
//	etl_schema -dialect postgres > create.sql
//	etl_schema -load | sqlite3 auction.db    # run next to the .dat files
//
// With -load (sqlite only) the CREATE statements are followed by sqlite3
// shell commands that import Item.dat, Categories.dat and belong.dat.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"auctionetl/internal/schema"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns 0 on success, 2 on usage errors and 1 on rendering errors.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("etl_schema", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dialectFlag := fs.String("dialect", string(schema.SQLite), "SQL dialect (sqlite, postgres, mssql)")
	load := fs.Bool("load", false, "append a sqlite3 script that imports the .dat extracts")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return 2
	}

	dialect, err := schema.ParseDialect(*dialectFlag)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if *load && dialect != schema.SQLite {
		fmt.Fprintf(stderr, "-load requires -dialect sqlite (got %s)\n", dialect)
		return 2
	}

	tables := schema.Tables()
	stmts, err := schema.CreateStatements(dialect, tables)
	if err != nil {
		fmt.Fprintf(stderr, "render ddl: %v\n", err)
		return 1
	}

	var b strings.Builder
	for _, s := range stmts {
		b.WriteString(s)
		b.WriteString("\n\n")
	}
	if *load {
		script, err := schema.LoadScript(tables)
		if err != nil {
			fmt.Fprintf(stderr, "render load script: %v\n", err)
			return 1
		}
		b.WriteString(script)
	}

	if _, err := io.WriteString(stdout, b.String()); err != nil {
		fmt.Fprintf(stderr, "write: %v\n", err)
		return 1
	}
	return 0
}
