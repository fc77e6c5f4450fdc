// Package gormq exposes gorm models and collections to the paginator.
package gormq

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/maxviazov/bookshelf-paginate/internal/orm"
	"github.com/maxviazov/bookshelf-paginate/pkg/paginate"
)

// Query wraps a gorm statement. Every method starts from a new session so the
// receiver's statement is never shared with the result.
type Query struct {
	db *gorm.DB
}

func (q Query) chain(fn func(*gorm.DB) *gorm.DB) Query {
	return Query{db: fn(q.db.Session(&gorm.Session{}))}
}

// Limit implements paginate.Query.
func (q Query) Limit(n int) paginate.Query {
	return q.chain(func(db *gorm.DB) *gorm.DB { return db.Limit(n) })
}

// Offset implements paginate.Query. gorm drops non-positive offsets.
func (q Query) Offset(n int) paginate.Query {
	return q.chain(func(db *gorm.DB) *gorm.DB { return db.Offset(n) })
}

func (q Query) Where(query any, args ...any) Query {
	return q.chain(func(db *gorm.DB) *gorm.DB { return db.Where(query, args...) })
}

func (q Query) Order(value any) Query {
	return q.chain(func(db *gorm.DB) *gorm.DB { return db.Order(value) })
}

type handle[T any] struct {
	query Query
}

func (h handle[T]) CloneQuery() paginate.Query { return h.query }

func (h handle[T]) fetch(ctx context.Context, q paginate.Query, opts paginate.FetchOptions) ([]T, error) {
	query, ok := q.(Query)
	if !ok {
		return nil, fmt.Errorf("gormq: unsupported query type %T", q)
	}
	tx := query.db.Session(&gorm.Session{}).WithContext(ctx)
	if err := tx.Statement.Parse(new(T)); err != nil {
		return nil, err
	}
	sch := tx.Statement.Schema

	if cols := orm.StringList(opts[orm.OptColumns]); len(cols) > 0 {
		for _, c := range cols {
			if _, ok := sch.FieldsByDBName[c]; !ok {
				return nil, fmt.Errorf("%w %q on %s", orm.ErrUnknownColumn, c, sch.Table)
			}
		}
		tx = tx.Select(cols)
	}
	for _, name := range orm.StringList(opts[orm.OptWithRelated]) {
		rel, ok := lookupRelation(sch.Relationships.Relations, name)
		if !ok {
			return nil, fmt.Errorf("%w %q on %s", orm.ErrUnknownRelation, name, sch.Table)
		}
		tx = tx.Preload(rel)
	}

	var out []T
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// lookupRelation matches withRelated names case-insensitively, so "author"
// finds the Author association.
func lookupRelation[R any](relations map[string]R, name string) (string, bool) {
	if _, ok := relations[name]; ok {
		return name, true
	}
	for k := range relations {
		if strings.EqualFold(k, name) {
			return k, true
		}
	}
	return "", false
}

// Model is a handle on every row of T's table, optionally narrowed by Where.
type Model[T any] struct {
	handle[T]
}

// NewModel starts from an unfiltered query on T's table.
func NewModel[T any](db *gorm.DB) *Model[T] {
	return &Model[T]{handle[T]{query: Query{db: db.Session(&gorm.Session{}).Model(new(T))}}}
}

// Where returns a narrowed copy of m.
func (m *Model[T]) Where(query any, args ...any) *Model[T] {
	return &Model[T]{handle[T]{query: m.query.Where(query, args...)}}
}

// Order returns a copy of m with an extra ORDER BY term.
func (m *Model[T]) Order(value any) *Model[T] {
	return &Model[T]{handle[T]{query: m.query.Order(value)}}
}

// FetchAll implements paginate.Model.
func (m *Model[T]) FetchAll(ctx context.Context, q paginate.Query, opts paginate.FetchOptions) ([]T, error) {
	return m.fetch(ctx, q, opts)
}

// First returns the first matching row or gorm.ErrRecordNotFound.
func (m *Model[T]) First(ctx context.Context, opts paginate.FetchOptions) (T, error) {
	var zero T
	rows, err := m.fetch(ctx, m.query.Limit(1), opts)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, gorm.ErrRecordNotFound
	}
	return rows[0], nil
}

func (m *Model[T]) Paginate(ctx context.Context, opts paginate.Options) (*paginate.Result[T], error) {
	return paginate.PaginateModel[T](ctx, m, opts)
}

// Collection is a handle on a fixed set of rows of T.
type Collection[T any] struct {
	handle[T]
}

// Related is the collection of T whose foreignKey column equals parentID.
func Related[T any](db *gorm.DB, foreignKey string, parentID any) *Collection[T] {
	q := Query{db: db.Session(&gorm.Session{}).Model(new(T))}.Where(clause.Eq{Column: clause.Column{Name: foreignKey}, Value: parentID})
	return &Collection[T]{handle[T]{query: q}}
}

// Order returns a copy of c with an extra ORDER BY term.
func (c *Collection[T]) Order(value any) *Collection[T] {
	return &Collection[T]{handle[T]{query: c.query.Order(value)}}
}

// Fetch implements paginate.Collection.
func (c *Collection[T]) Fetch(ctx context.Context, q paginate.Query, opts paginate.FetchOptions) ([]T, error) {
	return c.fetch(ctx, q, opts)
}

func (c *Collection[T]) Paginate(ctx context.Context, opts paginate.Options) (*paginate.Result[T], error) {
	return paginate.PaginateCollection[T](ctx, c, opts)
}

// Paginate is the static form: a page of T's table with no filters applied.
func Paginate[T any](ctx context.Context, db *gorm.DB, opts paginate.Options) (*paginate.Result[T], error) {
	return NewModel[T](db).Paginate(ctx, opts)
}

var (
	_ paginate.Model[struct{}]      = (*Model[struct{}])(nil)
	_ paginate.Collection[struct{}] = (*Collection[struct{}])(nil)
)
