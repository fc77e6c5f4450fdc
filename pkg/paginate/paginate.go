// Package paginate returns one page of rows from a model or collection handle
// together with navigation metadata.
//
// It over-fetches by one row (limit+1) to learn whether a next page exists, so a
// page costs exactly one read and no COUNT query. The host query layer is reached
// only through the small Query / Model / Collection interfaces below.
package paginate

import (
	"context"
	"math"
)

// Query is a cloneable limit/offset query. Limit and Offset return the modified
// query and must leave the receiver untouched.
type Query interface {
	Limit(n int) Query
	Offset(n int) Query
}

// Querier hands out a private copy of its base query.
type Querier interface {
	CloneQuery() Query
}

// Model is a single-entity handle. FetchAll runs q rooted at the model and
// returns every matching record.
type Model[T any] interface {
	Querier
	FetchAll(ctx context.Context, q Query, opts FetchOptions) ([]T, error)
}

// Collection is a multi-entity handle. Fetch runs q as a bulk fetch.
type Collection[T any] interface {
	Querier
	Fetch(ctx context.Context, q Query, opts FetchOptions) ([]T, error)
}

type fetchFunc[T any] func(ctx context.Context, q Query, opts FetchOptions) ([]T, error)

// PaginateModel returns the requested page of m.
func PaginateModel[T any](ctx context.Context, m Model[T], opts Options) (*Result[T], error) {
	return paginate(ctx, m, m.FetchAll, opts)
}

// PaginateCollection returns the requested page of c.
func PaginateCollection[T any](ctx context.Context, c Collection[T], opts Options) (*Result[T], error) {
	return paginate(ctx, c, c.Fetch, opts)
}

func paginate[T any](ctx context.Context, src Querier, fetch fetchFunc[T], opts Options) (*Result[T], error) {
	limit := resolve(opts.Limit, DefaultLimit, opts.Strict)
	page := resolve(opts.Page, DefaultPage, opts.Strict)

	fetchLimit := overFetch(limit)
	q := src.CloneQuery().
		Limit(fetchLimit).
		Offset(offsetFor(page, limit))

	rows, err := fetch(ctx, q, opts.Fetch.forward())
	if err != nil {
		return nil, err
	}

	n := len(rows)
	hasNext := fetchLimit > limit && n == fetchLimit

	data := make([]T, 0, n)
	data = append(data, rows[:sliceEnd(n, limit)]...)

	count := n
	if hasNext {
		count = limit
	}

	return &Result[T]{
		Data: data,
		Meta: Meta{Pagination: Pagination{
			Count:       count,
			PerPage:     limit,
			CurrentPage: page,
			Links:       newLinks(page, hasNext),
		}},
	}, nil
}

// sliceEnd bounds rows[:limit]. A negative limit counts back from the end,
// so a lenient negative limit never panics.
func sliceEnd(n, limit int) int {
	end := limit
	if end < 0 {
		end += n
	}
	if end < 0 {
		return 0
	}
	if end > n {
		return n
	}
	return end
}

// overFetch is limit+1, pinned at math.MaxInt.
func overFetch(limit int) int {
	if limit == math.MaxInt {
		return limit
	}
	return limit + 1
}

// offsetFor is (page-1)*limit, saturated at math.MaxInt or math.MinInt when the
// product does not fit in an int. A saturated positive offset reads past every
// row and yields an empty page.
func offsetFor(page, limit int) int {
	p := page - 1
	if page == math.MinInt {
		p = math.MinInt
	}
	off := p * limit
	if p == 0 || (off/p == limit && !(p == -1 && limit == math.MinInt)) {
		return off
	}
	if (p < 0) != (limit < 0) {
		return math.MinInt
	}
	return math.MaxInt
}
