package sqlq

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/maxviazov/bookshelf-paginate/internal/orm"
	"github.com/maxviazov/bookshelf-paginate/pkg/paginate"
)

type handle[T any] struct {
	db    Executor
	table *Table[T]
	query Query
}

func (h handle[T]) CloneQuery() paginate.Query { return h.query }

func (h handle[T]) fetch(ctx context.Context, q paginate.Query, opts paginate.FetchOptions) ([]T, error) {
	query, ok := q.(Query)
	if !ok {
		return nil, fmt.Errorf("sqlq: unsupported query type %T", q)
	}
	columns, err := h.table.pickColumns(orm.StringList(opts[orm.OptColumns]))
	if err != nil {
		return nil, err
	}
	relations, err := h.table.pickRelations(orm.StringList(opts[orm.OptWithRelated]))
	if err != nil {
		return nil, err
	}

	rows, err := fetchRows[T](ctx, h.db, query, columns)
	if err != nil {
		return nil, err
	}
	for _, rel := range relations {
		if err := rel.Load(ctx, h.db, rows); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// Model is a handle on a whole table, optionally narrowed by Where.
type Model[T any] struct {
	handle[T]
}

// NewModel starts from an unfiltered query on table.
func NewModel[T any](db Executor, table *Table[T]) *Model[T] {
	return &Model[T]{handle[T]{db: db, table: table, query: table.Query()}}
}

// Where returns a narrowed copy of m.
func (m *Model[T]) Where(pred any, args ...any) *Model[T] {
	c := *m
	c.query = c.query.Where(pred, args...)
	return &c
}

// OrderBy returns a copy of m ordered by the given clauses, after any default ordering.
func (m *Model[T]) OrderBy(orderBys ...string) *Model[T] {
	c := *m
	c.query = c.query.OrderBy(orderBys...)
	return &c
}

// FetchAll implements paginate.Model.
func (m *Model[T]) FetchAll(ctx context.Context, q paginate.Query, opts paginate.FetchOptions) ([]T, error) {
	return m.fetch(ctx, q, opts)
}

// First returns the first matching row or pgx.ErrNoRows.
func (m *Model[T]) First(ctx context.Context, opts paginate.FetchOptions) (T, error) {
	var zero T
	rows, err := m.fetch(ctx, m.query.Limit(1), opts)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, pgx.ErrNoRows
	}
	return rows[0], nil
}

func (m *Model[T]) Paginate(ctx context.Context, opts paginate.Options) (*paginate.Result[T], error) {
	return paginate.PaginateModel[T](ctx, m, opts)
}

// Collection is a handle on a fixed set of rows, typically the children of a parent.
type Collection[T any] struct {
	handle[T]
}

// NewCollection wraps an arbitrary query built from table.
func NewCollection[T any](db Executor, table *Table[T], q Query) *Collection[T] {
	return &Collection[T]{handle[T]{db: db, table: table, query: q}}
}

// Related is the collection of rows in table whose foreignKey equals parentID.
func Related[T any](db Executor, table *Table[T], foreignKey string, parentID any) *Collection[T] {
	return NewCollection(db, table, table.Query().Where(foreignKey+" = ?", parentID))
}

// Fetch implements paginate.Collection.
func (c *Collection[T]) Fetch(ctx context.Context, q paginate.Query, opts paginate.FetchOptions) ([]T, error) {
	return c.fetch(ctx, q, opts)
}

func (c *Collection[T]) Paginate(ctx context.Context, opts paginate.Options) (*paginate.Result[T], error) {
	return paginate.PaginateCollection[T](ctx, c, opts)
}

// Paginate is the static form: a page of table with no filters applied.
func Paginate[T any](ctx context.Context, db Executor, table *Table[T], opts paginate.Options) (*paginate.Result[T], error) {
	return NewModel(db, table).Paginate(ctx, opts)
}

var (
	_ paginate.Model[struct{}]      = (*Model[struct{}])(nil)
	_ paginate.Collection[struct{}] = (*Collection[struct{}])(nil)
)
