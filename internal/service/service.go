// Package service holds business logic orchestration across repositories and handlers.
// Kept lean: use-case coordination, validation, page limits and domain error shaping.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maxviazov/bookshelf-paginate/internal/model"
	"github.com/maxviazov/bookshelf-paginate/pkg/paginate"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	var v interface{ Fields() []FieldError }
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// PageSettings are the deployment-wide pagination rules applied to every list call.
type PageSettings struct {
	// Strict makes page and limit values below 1 fall back to their defaults.
	Strict bool
	// MaxLimit rejects larger limits; 0 disables the cap.
	MaxLimit int
}

// AuthorService defines author-oriented use cases.
type AuthorService interface {
	CreateAuthor(ctx context.Context, name string) (model.Author, error)
	GetAuthor(ctx context.Context, id int64) (model.Author, error)
	ListAuthors(ctx context.Context, opts paginate.Options) (*paginate.Result[model.Author], error)
}

// NewBook is the input for BookService.CreateBook.
type NewBook struct {
	AuthorID    int64
	Title       string
	Price       decimal.Decimal
	PublishedAt *time.Time
}

// BookService defines book-oriented use cases.
type BookService interface {
	CreateBook(ctx context.Context, in NewBook) (model.Book, error)
	GetBook(ctx context.Context, id int64, fetch paginate.FetchOptions) (model.Book, error)
	ListBooks(ctx context.Context, opts paginate.Options) (*paginate.Result[model.Book], error)
	ListBooksByAuthor(ctx context.Context, authorID int64, opts paginate.Options) (*paginate.Result[model.Book], error)
}
