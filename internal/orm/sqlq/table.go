package sqlq

import (
	"context"
	"fmt"
	"slices"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/maxviazov/bookshelf-paginate/internal/orm"
)

// Table describes how rows of T are stored. Columns doubles as the allow-list for
// the columns fetch option, so it must list every selectable column.
type Table[T any] struct {
	Name      string
	Columns   []string
	OrderBy   []string
	Relations map[string]Relation[T]
}

// Query returns the base query for the table with its default ordering.
func (t *Table[T]) Query() Query {
	q := From(t.Name)
	if len(t.OrderBy) > 0 {
		q = q.OrderBy(t.OrderBy...)
	}
	return q
}

func (t *Table[T]) pickColumns(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return t.Columns, nil
	}
	out := make([]string, 0, len(requested))
	for _, c := range requested {
		if !slices.Contains(t.Columns, c) {
			return nil, fmt.Errorf("%w %q on %s", orm.ErrUnknownColumn, c, t.Name)
		}
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (t *Table[T]) pickRelations(names []string) ([]Relation[T], error) {
	out := make([]Relation[T], 0, len(names))
	for _, name := range names {
		rel, ok := t.Relations[name]
		if !ok {
			return nil, fmt.Errorf("%w %q on %s", orm.ErrUnknownRelation, name, t.Name)
		}
		out = append(out, rel)
	}
	return out, nil
}

// Relation eager-loads related rows into already fetched parents.
type Relation[T any] interface {
	Load(ctx context.Context, db Executor, parents []T) error
}

// BelongsTo loads the single parent row each child points at, using one
// IN query for the whole batch.
type BelongsTo[T, R any] struct {
	Target     *Table[R]
	Key        string
	ForeignKey func(*T) int64
	KeyOf      func(*R) int64
	Set        func(*T, *R)
}

func (rel BelongsTo[T, R]) Load(ctx context.Context, db Executor, parents []T) error {
	ids := make([]int64, 0, len(parents))
	for i := range parents {
		id := rel.ForeignKey(&parents[i])
		if id != 0 && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	related, err := fetchRows[R](ctx, db, From(rel.Target.Name).Where(sq.Eq{rel.Key: ids}), rel.Target.Columns)
	if err != nil {
		return fmt.Errorf("load %s: %w", rel.Target.Name, err)
	}
	byKey := make(map[int64]*R, len(related))
	for i := range related {
		byKey[rel.KeyOf(&related[i])] = &related[i]
	}
	for i := range parents {
		if r, ok := byKey[rel.ForeignKey(&parents[i])]; ok {
			rel.Set(&parents[i], r)
		}
	}
	return nil
}

func fetchRows[T any](ctx context.Context, db Executor, q Query, columns []string) ([]T, error) {
	query, args, err := q.ToSQL(columns)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
}
