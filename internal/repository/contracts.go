package repository

import (
	"context"

	"github.com/maxviazov/bookshelf-paginate/internal/model"
	"github.com/maxviazov/bookshelf-paginate/pkg/paginate"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// AuthorRepository declares persistence operations for authors.
// List pages through the authors table as a model handle.
type AuthorRepository interface {
	Create(ctx context.Context, a model.Author) (model.Author, error)
	GetByID(ctx context.Context, id int64) (model.Author, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, opts paginate.Options) (*paginate.Result[model.Author], error)
}

// BookRepository declares persistence operations for books.
// Fetch options (withRelated, columns) are forwarded to the query layer untouched;
// unknown relations or columns surface as orm.ErrUnknownRelation / orm.ErrUnknownColumn.
type BookRepository interface {
	Create(ctx context.Context, b model.Book) (model.Book, error)
	GetByID(ctx context.Context, id int64, opts paginate.FetchOptions) (model.Book, error)
	List(ctx context.Context, opts paginate.Options) (*paginate.Result[model.Book], error)
	// ListByAuthor pages through one author's books as a collection handle.
	ListByAuthor(ctx context.Context, authorID int64, opts paginate.Options) (*paginate.Result[model.Book], error)
}
