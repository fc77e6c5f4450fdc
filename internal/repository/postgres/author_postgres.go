package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/bookshelf-paginate/internal/model"
	"github.com/maxviazov/bookshelf-paginate/internal/orm/sqlq"
	"github.com/maxviazov/bookshelf-paginate/internal/repository"
	"github.com/maxviazov/bookshelf-paginate/pkg/paginate"
)

type authorRepository struct{ pool *pgxpool.Pool }

func NewAuthorRepository(pool *pgxpool.Pool) repository.AuthorRepository {
	return &authorRepository{pool: pool}
}

func (r *authorRepository) Create(ctx context.Context, a model.Author) (model.Author, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Author{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO authors (name) VALUES ($1)
		 RETURNING id, name, created_at, updated_at`,
		a.Name,
	)
	var out model.Author
	if err := row.Scan(&out.ID, &out.Name, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return model.Author{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *authorRepository) GetByID(ctx context.Context, id int64) (model.Author, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Author{}, err
	}
	a, err := sqlq.NewModel(getQ(ctx, r.pool), authorsTable).Where("id = ?", id).First(ctx, nil)
	if err != nil {
		return model.Author{}, repository.MapPgError(err)
	}
	return a, nil
}

func (r *authorRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	var exists bool
	err := getQ(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM authors WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, repository.MapPgError(err)
	}
	return exists, nil
}

// List pages through every author ordered by id.
func (r *authorRepository) List(ctx context.Context, opts paginate.Options) (*paginate.Result[model.Author], error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	res, err := sqlq.Paginate(ctx, getQ(ctx, r.pool), authorsTable, opts)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return res, nil
}

var _ repository.AuthorRepository = (*authorRepository)(nil)
