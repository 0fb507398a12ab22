package sqlxrepos

import (
	"database/sql"

	"github.com/trezcool/cafeteria/core"
)

// trapNoRowsErr maps the "no rows" error to `notFound`; any other error is a persistence failure.
func trapNoRowsErr(err error, notFound error, op string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return core.NewPersistenceError(op, err)
}
