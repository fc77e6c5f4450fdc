package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/bookshelf-paginate/internal/model"
	"github.com/maxviazov/bookshelf-paginate/internal/orm/sqlq"
	"github.com/maxviazov/bookshelf-paginate/internal/repository"
	"github.com/maxviazov/bookshelf-paginate/pkg/paginate"
)

type bookRepository struct{ pool *pgxpool.Pool }

func NewBookRepository(pool *pgxpool.Pool) repository.BookRepository {
	return &bookRepository{pool: pool}
}

func (r *bookRepository) Create(ctx context.Context, b model.Book) (model.Book, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Book{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO books (author_id, title, price, published_at) VALUES ($1, $2, $3, $4)
		 RETURNING id, author_id, title, price, published_at, created_at, updated_at`,
		b.AuthorID, b.Title, b.Price, b.PublishedAt,
	)
	var out model.Book
	if err := row.Scan(&out.ID, &out.AuthorID, &out.Title, &out.Price, &out.PublishedAt, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return model.Book{}, repository.MapPgError(err)
	}
	return out, nil
}

// GetByID honors the same fetch options as List, so ?withRelated=author works
// on single books too.
func (r *bookRepository) GetByID(ctx context.Context, id int64, opts paginate.FetchOptions) (model.Book, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Book{}, err
	}
	b, err := sqlq.NewModel(getQ(ctx, r.pool), booksTable).Where("id = ?", id).First(ctx, opts)
	if err != nil {
		return model.Book{}, repository.MapPgError(err)
	}
	return b, nil
}

func (r *bookRepository) List(ctx context.Context, opts paginate.Options) (*paginate.Result[model.Book], error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	res, err := sqlq.NewModel(getQ(ctx, r.pool), booksTable).Paginate(ctx, opts)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return res, nil
}

// ListByAuthor pages through one author's books as a collection.
func (r *bookRepository) ListByAuthor(ctx context.Context, authorID int64, opts paginate.Options) (*paginate.Result[model.Book], error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	res, err := sqlq.Related(getQ(ctx, r.pool), booksTable, "author_id", authorID).Paginate(ctx, opts)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return res, nil
}

var _ repository.BookRepository = (*bookRepository)(nil)
