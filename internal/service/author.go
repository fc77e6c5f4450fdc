package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/bookshelf-paginate/internal/metrics"
	"github.com/maxviazov/bookshelf-paginate/internal/model"
	"github.com/maxviazov/bookshelf-paginate/internal/repository"
	"github.com/maxviazov/bookshelf-paginate/pkg/paginate"
)

type authorService struct {
	repo    repository.AuthorRepository
	pages   PageSettings
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewAuthorService(repo repository.AuthorRepository, pages PageSettings, m *metrics.Metrics, logger zerolog.Logger) AuthorService {
	l := logger.With().Str("module", "service").Str("component", "author").Logger()
	return &authorService{repo: repo, pages: pages, metrics: m, log: l}
}

func (s *authorService) CreateAuthor(ctx context.Context, name string) (model.Author, error) {
	start := time.Now()
	original := name
	name = strings.TrimSpace(name)

	if err := newInvalidInput(validateName("name", name, 2, 100)); err != nil {
		s.log.Debug().Str("name_raw", original).Msg("author validation failed")
		return model.Author{}, err
	}

	out, err := s.repo.Create(ctx, model.Author{Name: name})
	if err != nil {
		s.log.Error().Err(err).Str("name", name).Msg("create author failed")
		return model.Author{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("author_id", out.ID).Msg("author created")
	return out, nil
}

func (s *authorService) GetAuthor(ctx context.Context, id int64) (model.Author, error) {
	if id <= 0 {
		return model.Author{}, newInvalidInput([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.repo.GetByID(ctx, id)
}

func (s *authorService) ListAuthors(ctx context.Context, opts paginate.Options) (*paginate.Result[model.Author], error) {
	opts, err := pageOptions(opts, s.pages)
	if err != nil {
		return nil, err
	}
	res, err := s.repo.List(ctx, opts)
	if err != nil {
		s.metrics.ObservePageFailure("authors")
		s.log.Error().Err(err).Int("page", opts.Page).Int("limit", opts.Limit).Msg("list authors failed")
		return nil, err
	}
	s.metrics.ObservePage("authors", "model", len(res.Data))
	s.log.Debug().Int("page", res.Meta.Pagination.CurrentPage).Int("count", res.Meta.Pagination.Count).Msg("authors page served")
	return res, nil
}
