package gormstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/maxviazov/bookshelf-paginate/internal/model"
	"github.com/maxviazov/bookshelf-paginate/internal/orm/gormq"
	"github.com/maxviazov/bookshelf-paginate/internal/repository"
	"github.com/maxviazov/bookshelf-paginate/pkg/paginate"
)

type bookRepository struct{ db *gorm.DB }

func NewBookRepository(db *gorm.DB) repository.BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b model.Book) (model.Book, error) {
	out := model.Book{AuthorID: b.AuthorID, Title: b.Title, Price: b.Price, PublishedAt: b.PublishedAt}
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(&out).Error; err != nil {
		return model.Book{}, repository.MapGormError(err)
	}
	return out, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64, opts paginate.FetchOptions) (model.Book, error) {
	b, err := gormq.NewModel[model.Book](conn(ctx, r.db)).Where("id = ?", id).First(ctx, opts)
	if err != nil {
		return model.Book{}, repository.MapGormError(err)
	}
	return b, nil
}

func (r *bookRepository) List(ctx context.Context, opts paginate.Options) (*paginate.Result[model.Book], error) {
	res, err := gormq.NewModel[model.Book](conn(ctx, r.db)).Order("id").Paginate(ctx, opts)
	if err != nil {
		return nil, repository.MapGormError(err)
	}
	return res, nil
}

func (r *bookRepository) ListByAuthor(ctx context.Context, authorID int64, opts paginate.Options) (*paginate.Result[model.Book], error) {
	res, err := gormq.Related[model.Book](conn(ctx, r.db), "author_id", authorID).Order("id").Paginate(ctx, opts)
	if err != nil {
		return nil, repository.MapGormError(err)
	}
	return res, nil
}

var _ repository.BookRepository = (*bookRepository)(nil)
