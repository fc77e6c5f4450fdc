// Package contract holds storage-agnostic repository suites. Each driver wires
// them to its own factories, so pgx and gorm repositories are held to the same
// behavior.
package contract

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/maxviazov/bookshelf-paginate/internal/model"
	"github.com/maxviazov/bookshelf-paginate/internal/orm"
	"github.com/maxviazov/bookshelf-paginate/internal/repository"
	"github.com/maxviazov/bookshelf-paginate/pkg/paginate"
)

type AuthorFactory func(t *testing.T) (repository.AuthorRepository, func())

type BookFactory func(t *testing.T) (repo repository.BookRepository, createAuthor func(ctx context.Context, name string) (int64, error), cleanup func())

type TxFactory func(t *testing.T) (tx repository.TxManager, authors repository.AuthorRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func RunAuthorRepositoryContract(t *testing.T, makeRepo AuthorFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Author{Name: "Ursula K. Le Guin"})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.ID != created.ID || got.Name != created.Name {
			t.Fatalf("mismatch: %+v", got)
		}
		ok, err := repo.Exists(ctx, created.ID)
		if err != nil || !ok {
			t.Fatalf("expected author to exist, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999999)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_pages", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 7; i++ {
			if _, err := repo.Create(ctx, model.Author{Name: fmt.Sprintf("A-%c", 'A'+i)}); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}

		first, err := repo.List(ctx, paginate.Options{Page: 1, Limit: 3})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		p := first.Meta.Pagination
		if len(first.Data) != 3 || p.Count != 3 || p.Links.Previous != nil || p.Links.Next == nil || *p.Links.Next != 2 {
			t.Fatalf("unexpected first page: len=%d meta=%+v", len(first.Data), p)
		}
		if first.Data[0].Name != "A-A" {
			t.Fatalf("expected id ordering, got %q first", first.Data[0].Name)
		}

		last, err := repo.List(ctx, paginate.Options{Page: 3, Limit: 3})
		if err != nil {
			t.Fatalf("list last: %v", err)
		}
		p = last.Meta.Pagination
		if len(last.Data) != 1 || p.Count != 1 || p.Links.Next != nil || p.Links.Previous == nil || *p.Links.Previous != 2 {
			t.Fatalf("unexpected last page: len=%d meta=%+v", len(last.Data), p)
		}

		empty, err := repo.List(ctx, paginate.Options{Page: 9, Limit: 3})
		if err != nil {
			t.Fatalf("list past end: %v", err)
		}
		if empty.Data == nil || len(empty.Data) != 0 || empty.Meta.Pagination.Count != 0 {
			t.Fatalf("expected empty non-nil page, got %+v", empty)
		}
	})

	t.Run("create_duplicate_name_conflict", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := repo.Create(ctx, model.Author{Name: "Dup"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err := repo.Create(ctx, model.Author{Name: "Dup"})
		if !errors.Is(err, repository.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func RunBookRepositoryContract(t *testing.T, makeRepo BookFactory) {
	t.Helper()

	t.Run("create_and_get_with_author", func(t *testing.T) {
		repo, mkAuthor, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		authorID, err := mkAuthor(ctx, "Stanisław Lem")
		if err != nil {
			t.Fatalf("seed author: %v", err)
		}
		created, err := repo.Create(ctx, model.Book{AuthorID: authorID, Title: "Solaris", Price: decimal.RequireFromString("12.50")})
		if err != nil {
			t.Fatalf("create book: %v", err)
		}
		if !created.Price.Equal(decimal.RequireFromString("12.5")) {
			t.Fatalf("price round trip: %s", created.Price)
		}

		plain, err := repo.GetByID(ctx, created.ID, nil)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if plain.Author != nil {
			t.Fatalf("author loaded without withRelated: %+v", plain.Author)
		}

		withAuthor, err := repo.GetByID(ctx, created.ID, paginate.FetchOptions{orm.OptWithRelated: "author"})
		if err != nil {
			t.Fatalf("get with author: %v", err)
		}
		if withAuthor.Author == nil || withAuthor.Author.ID != authorID {
			t.Fatalf("author not eager-loaded: %+v", withAuthor)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 42424242, nil)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("create_missing_author_conflict", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.Create(context.Background(), model.Book{AuthorID: 777777, Title: "Orphan"})
		if !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("list_by_author_pages", func(t *testing.T) {
		repo, mkAuthor, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		authorID, err := mkAuthor(ctx, "Octavia Butler")
		if err != nil {
			t.Fatalf("seed author: %v", err)
		}
		otherID, err := mkAuthor(ctx, "Someone Else")
		if err != nil {
			t.Fatalf("seed other author: %v", err)
		}
		for i := 0; i < 5; i++ {
			b := model.Book{AuthorID: authorID, Title: fmt.Sprintf("Book %d", i)}
			if _, err := repo.Create(ctx, b); err != nil {
				t.Fatalf("seed book %d: %v", i, err)
			}
		}
		if _, err := repo.Create(ctx, model.Book{AuthorID: otherID, Title: "Noise"}); err != nil {
			t.Fatalf("seed noise: %v", err)
		}

		res, err := repo.ListByAuthor(ctx, authorID, paginate.Options{Page: 2, Limit: 2})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		p := res.Meta.Pagination
		if len(res.Data) != 2 || p.CurrentPage != 2 || p.Links.Next == nil || *p.Links.Next != 3 {
			t.Fatalf("unexpected page: len=%d meta=%+v", len(res.Data), p)
		}
		for _, b := range res.Data {
			if b.AuthorID != authorID {
				t.Fatalf("foreign book in collection: %+v", b)
			}
		}

		all, err := repo.List(ctx, paginate.OptionsFrom(map[string]any{"limit": 10, "withRelated": "author"}))
		if err != nil {
			t.Fatalf("list all: %v", err)
		}
		if len(all.Data) != 6 || all.Meta.Pagination.Links.Next != nil {
			t.Fatalf("unexpected full page: len=%d meta=%+v", len(all.Data), all.Meta.Pagination)
		}
		for _, b := range all.Data {
			if b.Author == nil {
				t.Fatalf("author missing on %+v", b)
			}
		}
	})

	t.Run("unknown_fetch_options", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		_, err := repo.List(ctx, paginate.OptionsFrom(map[string]any{"withRelated": "publisher"}))
		if !errors.Is(err, orm.ErrUnknownRelation) {
			t.Fatalf("expected ErrUnknownRelation, got %v", err)
		}
		_, err = repo.List(ctx, paginate.OptionsFrom(map[string]any{"columns": "id; DROP TABLE books"}))
		if !errors.Is(err, orm.ErrUnknownColumn) {
			t.Fatalf("expected ErrUnknownColumn, got %v", err)
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		tx, authors, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := authors.Create(ctx, model.Author{Name: "TxCommit"})
			if err != nil {
				return err
			}
			createdID = out.ID
			return nil
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		if _, err := authors.GetByID(ctx, createdID); err != nil {
			t.Fatalf("expected committed row visible, got err=%v", err)
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, authors, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		errMarker := errors.New("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := authors.Create(ctx, model.Author{Name: "TxRollback"})
			if err != nil {
				return err
			}
			createdID = out.ID
			return errMarker
		})
		if !errors.Is(err, errMarker) {
			t.Fatalf("expected marker error, got %v", err)
		}
		if _, err := authors.GetByID(ctx, createdID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after rollback, got %v", err)
		}
	})

	t.Run("list_sees_uncommitted_rows", func(t *testing.T) {
		tx, authors, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := authors.Create(ctx, model.Author{Name: "InTx"}); err != nil {
				return err
			}
			res, err := authors.List(ctx, paginate.Options{})
			if err != nil {
				return err
			}
			if len(res.Data) != 1 {
				return fmt.Errorf("expected 1 author inside tx, got %d", len(res.Data))
			}
			return nil
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}
