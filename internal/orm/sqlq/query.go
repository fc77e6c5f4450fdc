// Package sqlq is a thin model/collection layer over squirrel and pgx.
//
// Queries are immutable values, so handing a query to the paginator or to a
// goroutine never needs an explicit copy.
package sqlq

import (
	"context"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/maxviazov/bookshelf-paginate/pkg/paginate"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Executor runs a read query. *pgxpool.Pool, *pgx.Conn and pgx.Tx all satisfy it.
type Executor interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Query is a SELECT without a column list; columns are picked at fetch time.
type Query struct {
	b         sq.SelectBuilder
	limit     int
	offset    int
	hasLimit  bool
	hasOffset bool
}

// From starts a query on table.
func From(table string) Query {
	return Query{b: psql.Select().From(table)}
}

// Where adds a predicate; see squirrel.SelectBuilder.Where for accepted forms.
func (q Query) Where(pred any, args ...any) Query {
	q.b = q.b.Where(pred, args...)
	return q
}

func (q Query) OrderBy(orderBys ...string) Query {
	q.b = q.b.OrderBy(orderBys...)
	return q
}

// Limit implements paginate.Query.
func (q Query) Limit(n int) paginate.Query {
	q.limit, q.hasLimit = n, true
	return q
}

// Offset implements paginate.Query.
func (q Query) Offset(n int) paginate.Query {
	q.offset, q.hasOffset = n, true
	return q
}

// ToSQL renders the statement selecting columns. Negative limits and offsets are
// written out verbatim and left for Postgres to reject.
func (q Query) ToSQL(columns []string) (string, []any, error) {
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("sqlq: no columns selected")
	}
	b := q.b.Columns(columns...)
	if q.hasLimit {
		if q.limit >= 0 {
			b = b.Limit(uint64(q.limit))
		} else {
			b = b.Suffix("LIMIT " + strconv.Itoa(q.limit))
		}
	}
	if q.hasOffset {
		if q.offset >= 0 {
			b = b.Offset(uint64(q.offset))
		} else {
			b = b.Suffix("OFFSET " + strconv.Itoa(q.offset))
		}
	}
	return b.ToSql()
}

var _ paginate.Query = Query{}
