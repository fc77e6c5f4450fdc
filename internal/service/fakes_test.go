package service_test

import (
	"context"
	"sort"

	"github.com/maxviazov/bookshelf-paginate/internal/model"
	"github.com/maxviazov/bookshelf-paginate/internal/repository"
	"github.com/maxviazov/bookshelf-paginate/pkg/paginate"
)

type fakeAuthorRepo struct {
	nextID    int64
	items     map[int64]model.Author
	createErr error
	listErr   error
	lastOpts  paginate.Options
}

func newFakeAuthorRepo() *fakeAuthorRepo {
	return &fakeAuthorRepo{nextID: 1, items: map[int64]model.Author{}}
}

func (f *fakeAuthorRepo) Create(_ context.Context, a model.Author) (model.Author, error) {
	if f.createErr != nil {
		return model.Author{}, f.createErr
	}
	a.ID = f.nextID
	f.nextID++
	f.items[a.ID] = a
	return a, nil
}

func (f *fakeAuthorRepo) GetByID(_ context.Context, id int64) (model.Author, error) {
	a, ok := f.items[id]
	if !ok {
		return model.Author{}, repository.ErrNotFound
	}
	return a, nil
}

func (f *fakeAuthorRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.items[id]
	return ok, nil
}

func (f *fakeAuthorRepo) List(ctx context.Context, opts paginate.Options) (*paginate.Result[model.Author], error) {
	f.lastOpts = opts
	if f.listErr != nil {
		return nil, f.listErr
	}
	ids := make([]int64, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	rows := make([]model.Author, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, f.items[id])
	}
	return paginate.PaginateModel[model.Author](ctx, sliceModel[model.Author](rows), opts)
}

type fakeBookRepo struct {
	nextID   int64
	items    []model.Book
	lastOpts paginate.Options
	lastGet  paginate.FetchOptions
}

func newFakeBookRepo() *fakeBookRepo { return &fakeBookRepo{nextID: 1} }

func (f *fakeBookRepo) Create(_ context.Context, b model.Book) (model.Book, error) {
	b.ID = f.nextID
	f.nextID++
	f.items = append(f.items, b)
	return b, nil
}

func (f *fakeBookRepo) GetByID(_ context.Context, id int64, opts paginate.FetchOptions) (model.Book, error) {
	f.lastGet = opts
	for _, b := range f.items {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Book{}, repository.ErrNotFound
}

func (f *fakeBookRepo) List(ctx context.Context, opts paginate.Options) (*paginate.Result[model.Book], error) {
	f.lastOpts = opts
	return paginate.PaginateModel[model.Book](ctx, sliceModel[model.Book](f.items), opts)
}

func (f *fakeBookRepo) ListByAuthor(ctx context.Context, authorID int64, opts paginate.Options) (*paginate.Result[model.Book], error) {
	f.lastOpts = opts
	var rows []model.Book
	for _, b := range f.items {
		if b.AuthorID == authorID {
			rows = append(rows, b)
		}
	}
	return paginate.PaginateModel[model.Book](ctx, sliceModel[model.Book](rows), opts)
}

var (
	_ repository.AuthorRepository = (*fakeAuthorRepo)(nil)
	_ repository.BookRepository   = (*fakeBookRepo)(nil)
)

// sliceModel pages over an in-memory slice.
type sliceModel[T any] []T

type sliceQuery struct{ limit, offset int }

func (q sliceQuery) Limit(n int) paginate.Query  { q.limit = n; return q }
func (q sliceQuery) Offset(n int) paginate.Query { q.offset = n; return q }

func (m sliceModel[T]) CloneQuery() paginate.Query { return sliceQuery{limit: -1} }

func (m sliceModel[T]) FetchAll(_ context.Context, q paginate.Query, _ paginate.FetchOptions) ([]T, error) {
	sq := q.(sliceQuery)
	if sq.offset < 0 || sq.offset >= len(m) {
		return nil, nil
	}
	rest := m[sq.offset:]
	if sq.limit >= 0 && sq.limit < len(rest) {
		rest = rest[:sq.limit]
	}
	return append([]T(nil), rest...), nil
}
