package schema

import (
	"fmt"
	"strings"

	"auctionetl/internal/extract"
)

// LoadScript renders a sqlite3 shell script that imports every table's
// extract file, in table order, from the current directory.
//
// The extract files quote free text with doubled inner quotes, which the
// sqlite3 shell's .import understands. The extract.Null sentinel in nullable
// columns is turned into SQL NULL after the import.
func LoadScript(tables []TableSpec) (string, error) {
	var b strings.Builder
	b.WriteString(".separator |\n")
	for _, t := range tables {
		if err := validate(t); err != nil {
			return "", err
		}
		if t.File == "" {
			return "", fmt.Errorf("schema: table %s: no extract file", t.Name)
		}
		fmt.Fprintf(&b, ".import %s %s\n", t.File, t.Name)
	}
	for _, t := range tables {
		for _, c := range t.Columns {
			if !c.Nullable {
				continue
			}
			fmt.Fprintf(&b, "UPDATE %s SET %s = NULL WHERE %s = '%s';\n",
				sqliteIdent(t.Name), sqliteIdent(c.Name), sqliteIdent(c.Name), extract.Null)
		}
	}
	return b.String(), nil
}
