package ioschema

import (
	"fmt"

	"github.com/jackc/pgx/v5"
)

// collationColumns are text columns used for sorting.
var collationColumns = []struct{ table, column string }{
	{"species_names", "name"},
	{"gene_refs", "accession"},
	{"protein_refs", "accession"},
	{"gene_strings", "category"},
	{"gene_strings", "value"},
	{"protein_strings", "category"},
	{"protein_strings", "value"},
}

// collationSQL builds the statement that makes a text column sort
// bytewise.
func collationSQL(table, column string) string {
	return fmt.Sprintf(`ALTER TABLE %s ALTER COLUMN %s TYPE TEXT COLLATE "C"`,
		pgx.Identifier{table}.Sanitize(),
		pgx.Identifier{column}.Sanitize(),
	)
}
