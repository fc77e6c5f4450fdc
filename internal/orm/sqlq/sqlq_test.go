package sqlq

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/bookshelf-paginate/internal/orm"
	"github.com/maxviazov/bookshelf-paginate/pkg/paginate"
)

type testAuthor struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type testBook struct {
	ID       int64       `db:"id"`
	AuthorID int64       `db:"author_id"`
	Title    string      `db:"title"`
	Author   *testAuthor `db:"-"`
}

var testAuthors = &Table[testAuthor]{
	Name:    "authors",
	Columns: []string{"id", "name"},
	OrderBy: []string{"id"},
}

var testBooks = &Table[testBook]{
	Name:    "books",
	Columns: []string{"id", "author_id", "title"},
	OrderBy: []string{"id"},
	Relations: map[string]Relation[testBook]{
		"author": BelongsTo[testBook, testAuthor]{
			Target:     testAuthors,
			Key:        "id",
			ForeignKey: func(b *testBook) int64 { return b.AuthorID },
			KeyOf:      func(a *testAuthor) int64 { return a.ID },
			Set:        func(b *testBook, a *testAuthor) { b.Author = a },
		},
	},
}

// fakeRows serves a fixed result set and scans by reflection.
type fakeRows struct {
	cols []string
	data [][]any
	i    int
	err  error
}

func (r *fakeRows) Close()                        {}
func (r *fakeRows) Err() error                    { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) Conn() *pgx.Conn               { return nil }
func (r *fakeRows) RawValues() [][]byte           { return nil }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		out[i] = pgconn.FieldDescription{Name: c}
	}
	return out
}

func (r *fakeRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: want %d targets, got %d", len(row), len(dest))
	}
	for j, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(row[j]))
	}
	return nil
}

func (r *fakeRows) Values() ([]any, error) { return r.data[r.i-1], nil }

type recordedQuery struct {
	sql  string
	args []any
}

// fakeExecutor answers queries in order and records what it was asked.
type fakeExecutor struct {
	results []*fakeRows
	err     error
	queries []recordedQuery
}

func (e *fakeExecutor) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	e.queries = append(e.queries, recordedQuery{sql: sql, args: args})
	if e.err != nil {
		return nil, e.err
	}
	if len(e.results) == 0 {
		return nil, errors.New("fakeExecutor: unexpected query " + sql)
	}
	r := e.results[0]
	e.results = e.results[1:]
	return r, nil
}

func bookRows(from, to int) *fakeRows {
	r := &fakeRows{cols: []string{"id", "author_id", "title"}}
	for i := from; i <= to; i++ {
		r.data = append(r.data, []any{int64(i), int64(i%2 + 1), fmt.Sprintf("Book %d", i)})
	}
	return r
}

func TestQuery_ToSQL(t *testing.T) {
	base := testBooks.Query().Where("author_id = ?", 7)

	sql, args, err := base.Limit(16).Offset(45).(Query).ToSQL([]string{"id", "title"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, title FROM books WHERE author_id = $1 ORDER BY id LIMIT 16 OFFSET 45", sql)
	assert.Equal(t, []any{7}, args)

	// The base query is a value and keeps no limit or offset.
	sql, _, err = base.ToSQL([]string{"id"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM books WHERE author_id = $1 ORDER BY id", sql)
}

func TestQuery_ToSQL_NegativeValuesAreVerbatim(t *testing.T) {
	sql, _, err := From("books").Limit(11).Offset(-20).(Query).ToSQL([]string{"id"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(sql, "LIMIT 11 OFFSET -20"), sql)
}

func TestQuery_ToSQL_NoColumns(t *testing.T) {
	_, _, err := From("books").ToSQL(nil)
	assert.Error(t, err)
}

func TestModel_Paginate(t *testing.T) {
	exec := &fakeExecutor{results: []*fakeRows{bookRows(1, 16)}}

	res, err := NewModel(exec, testBooks).Paginate(context.Background(), paginate.Options{Page: 1, Limit: 15})
	require.NoError(t, err)

	require.Len(t, exec.queries, 1)
	assert.Equal(t, "SELECT id, author_id, title FROM books ORDER BY id LIMIT 16 OFFSET 0", exec.queries[0].sql)
	assert.Len(t, res.Data, 15)
	assert.Equal(t, int64(15), res.Data[14].ID)
	assert.Equal(t, 15, res.Meta.Pagination.Count)
	require.NotNil(t, res.Meta.Pagination.Links.Next)
	assert.Equal(t, 2, *res.Meta.Pagination.Links.Next)
}

func TestModel_Paginate_WithRelatedAndColumns(t *testing.T) {
	authors := &fakeRows{
		cols: []string{"id", "name"},
		data: [][]any{{int64(1), "Le Guin"}, {int64(2), "Lem"}},
	}
	exec := &fakeExecutor{results: []*fakeRows{bookRows(1, 3), authors}}

	opts := paginate.OptionsFrom(map[string]any{
		"limit":       "5",
		"withRelated": "author",
		"columns":     "id,author_id,title",
	})
	res, err := NewModel(exec, testBooks).Where("title <> ?", "").Paginate(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, exec.queries, 2)
	assert.Equal(t, "SELECT id, name FROM authors WHERE id IN ($1,$2)", exec.queries[1].sql)
	assert.ElementsMatch(t, []any{int64(1), int64(2)}, exec.queries[1].args)

	require.Len(t, res.Data, 3)
	for _, b := range res.Data {
		require.NotNil(t, b.Author, "book %d", b.ID)
		assert.Equal(t, b.AuthorID, b.Author.ID)
	}
	assert.Nil(t, res.Meta.Pagination.Links.Next)
}

func TestModel_Paginate_RejectsUnknownOptionsBeforeQuerying(t *testing.T) {
	cases := map[string]struct {
		opts map[string]any
		want error
	}{
		"relation": {map[string]any{"withRelated": "publisher"}, orm.ErrUnknownRelation},
		"column":   {map[string]any{"columns": "id; DROP TABLE books"}, orm.ErrUnknownColumn},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			exec := &fakeExecutor{}
			_, err := NewModel(exec, testBooks).Paginate(context.Background(), paginate.OptionsFrom(tc.opts))
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, exec.queries)
		})
	}
}

func TestModel_Paginate_PropagatesDriverError(t *testing.T) {
	boom := &pgconn.PgError{Code: "2201X", Message: "OFFSET must not be negative"}
	exec := &fakeExecutor{err: boom}

	_, err := NewModel(exec, testBooks).Paginate(context.Background(), paginate.Options{Page: -1})
	assert.Same(t, error(boom), err)
	require.Len(t, exec.queries, 1)
	assert.Contains(t, exec.queries[0].sql, "OFFSET -20")
}

func TestModel_First(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		exec := &fakeExecutor{results: []*fakeRows{bookRows(4, 4)}}
		b, err := NewModel(exec, testBooks).Where("id = ?", 4).First(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(4), b.ID)
		assert.Equal(t, "SELECT id, author_id, title FROM books WHERE id = $1 ORDER BY id LIMIT 1", exec.queries[0].sql)
	})

	t.Run("missing", func(t *testing.T) {
		exec := &fakeExecutor{results: []*fakeRows{{cols: []string{"id", "author_id", "title"}}}}
		_, err := NewModel(exec, testBooks).Where("id = ?", 4).First(context.Background(), nil)
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})
}

func TestRelated_Paginate(t *testing.T) {
	exec := &fakeExecutor{results: []*fakeRows{bookRows(6, 10)}}

	res, err := Related(exec, testBooks, "author_id", int64(2)).
		Paginate(context.Background(), paginate.Options{Page: 2, Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, "SELECT id, author_id, title FROM books WHERE author_id = $1 ORDER BY id LIMIT 6 OFFSET 5", exec.queries[0].sql)
	assert.Equal(t, []any{int64(2)}, exec.queries[0].args)
	assert.Len(t, res.Data, 5)
	assert.Nil(t, res.Meta.Pagination.Links.Next)
	require.NotNil(t, res.Meta.Pagination.Links.Previous)
	assert.Equal(t, 1, *res.Meta.Pagination.Links.Previous)
}
