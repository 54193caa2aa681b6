// Package sqlxrepos implements the domain repositories on PostgreSQL
// with sqlx struct scanning.
package sqlxrepos

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/fundi/core"
)

// execer is what every query runs against: the pool by default, or the
// *sqlx.Tx a service passed down.
type execer interface {
	sqlx.ExtContext
}

func getExec(db *sqlx.DB, svcExec []core.DBExecutor) execer {
	if len(svcExec) > 0 {
		if ext, ok := svcExec[0].(execer); ok {
			return ext
		}
	}
	return db
}

// trapNoRowsErr maps psql "no rows" to the domain's not-found error.
func trapNoRowsErr(err, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func orderBy(ordering []core.DBOrdering, fallback string) string {
	if len(ordering) == 0 {
		return fallback
	}
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		orderList = append(orderList, ord.String())
	}
	return strings.Join(orderList, ", ")
}

func rowsAffected(res sql.Result) int {
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return int(cnt)
}
