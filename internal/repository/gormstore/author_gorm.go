package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/maxviazov/bookshelf-paginate/internal/model"
	"github.com/maxviazov/bookshelf-paginate/internal/orm/gormq"
	"github.com/maxviazov/bookshelf-paginate/internal/repository"
	"github.com/maxviazov/bookshelf-paginate/pkg/paginate"
)

type authorRepository struct{ db *gorm.DB }

func NewAuthorRepository(db *gorm.DB) repository.AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) Create(ctx context.Context, a model.Author) (model.Author, error) {
	out := model.Author{Name: a.Name}
	if err := conn(ctx, r.db).Create(&out).Error; err != nil {
		return model.Author{}, repository.MapGormError(err)
	}
	return out, nil
}

func (r *authorRepository) GetByID(ctx context.Context, id int64) (model.Author, error) {
	a, err := gormq.NewModel[model.Author](conn(ctx, r.db)).Where("id = ?", id).First(ctx, nil)
	if err != nil {
		return model.Author{}, repository.MapGormError(err)
	}
	return a, nil
}

func (r *authorRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := conn(ctx, r.db).Model(&model.Author{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, repository.MapGormError(err)
	}
	return n > 0, nil
}

func (r *authorRepository) List(ctx context.Context, opts paginate.Options) (*paginate.Result[model.Author], error) {
	res, err := gormq.NewModel[model.Author](conn(ctx, r.db)).Order("id").Paginate(ctx, opts)
	if err != nil {
		return nil, repository.MapGormError(err)
	}
	return res, nil
}

var _ repository.AuthorRepository = (*authorRepository)(nil)
