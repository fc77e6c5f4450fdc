package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/bookshelf-paginate/internal/metrics"
	"github.com/maxviazov/bookshelf-paginate/internal/model"
	"github.com/maxviazov/bookshelf-paginate/internal/repository"
	"github.com/maxviazov/bookshelf-paginate/pkg/paginate"
)

type bookService struct {
	books   repository.BookRepository
	authors repository.AuthorRepository
	pages   PageSettings
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewBookService(books repository.BookRepository, authors repository.AuthorRepository, pages PageSettings, m *metrics.Metrics, logger zerolog.Logger) BookService {
	l := logger.With().Str("module", "service").Str("component", "book").Logger()
	return &bookService{books: books, authors: authors, pages: pages, metrics: m, log: l}
}

func (s *bookService) CreateBook(ctx context.Context, in NewBook) (model.Book, error) {
	start := time.Now()
	rawTitle := in.Title
	in.Title = normalizeTitle(in.Title)

	var ferrs []FieldError
	if in.AuthorID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "author_id", Message: "must be > 0"})
	}
	ferrs = append(ferrs, validateName("title", in.Title, 1, 200)...)
	ferrs = append(ferrs, validatePrice(in.Price)...)
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Str("title_raw", rawTitle).Msg("book validation failed")
		return model.Book{}, err
	}

	// A clear field error reads better than a foreign key violation.
	ok, err := s.authors.Exists(ctx, in.AuthorID)
	if err != nil {
		return model.Book{}, err
	}
	if !ok {
		return model.Book{}, newInvalidInput([]FieldError{{Field: "author_id", Message: "author does not exist"}})
	}

	out, err := s.books.Create(ctx, model.Book{
		AuthorID:    in.AuthorID,
		Title:       in.Title,
		Price:       in.Price,
		PublishedAt: in.PublishedAt,
	})
	if err != nil {
		s.log.Error().Err(err).Int64("author_id", in.AuthorID).Str("title", in.Title).Msg("create book failed")
		return model.Book{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("book_id", out.ID).Msg("book created")
	return out, nil
}

func (s *bookService) GetBook(ctx context.Context, id int64, fetch paginate.FetchOptions) (model.Book, error) {
	if id <= 0 {
		return model.Book{}, newInvalidInput([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.books.GetByID(ctx, id, fetch)
}

func (s *bookService) ListBooks(ctx context.Context, opts paginate.Options) (*paginate.Result[model.Book], error) {
	opts, err := pageOptions(opts, s.pages)
	if err != nil {
		return nil, err
	}
	res, err := s.books.List(ctx, opts)
	if err != nil {
		s.metrics.ObservePageFailure("books")
		s.log.Error().Err(err).Int("page", opts.Page).Int("limit", opts.Limit).Msg("list books failed")
		return nil, err
	}
	s.metrics.ObservePage("books", "model", len(res.Data))
	return res, nil
}

// ListBooksByAuthor returns ErrNotFound for a missing author rather than an
// empty page, so clients can tell the two apart.
func (s *bookService) ListBooksByAuthor(ctx context.Context, authorID int64, opts paginate.Options) (*paginate.Result[model.Book], error) {
	if authorID <= 0 {
		return nil, newInvalidInput([]FieldError{{Field: "author_id", Message: "must be > 0"}})
	}
	opts, err := pageOptions(opts, s.pages)
	if err != nil {
		return nil, err
	}
	ok, err := s.authors.Exists(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repository.ErrNotFound
	}

	res, err := s.books.ListByAuthor(ctx, authorID, opts)
	if err != nil {
		s.metrics.ObservePageFailure("author_books")
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Int64("author_id", authorID).Int("page", opts.Page).Msg("list author books failed")
		}
		return nil, err
	}
	s.metrics.ObservePage("author_books", "collection", len(res.Data))
	return res, nil
}
