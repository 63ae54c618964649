package table

import "fmt"

// SchemaError reports a required column missing from an input table. It is
// the only fatal data error in the pipeline: runs abort before producing any
// partial output. Unparseable cells are not schema errors; they degrade to
// missing values instead.
type SchemaError struct {
	Table  string // "emissions" or "population"
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %s: missing required column %q", e.Table, e.Column)
}
