package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/bookshelf-paginate/internal/model"
	"github.com/maxviazov/bookshelf-paginate/internal/repository"
	"github.com/maxviazov/bookshelf-paginate/internal/repository/contract"
)

var (
	db     *sql.DB
	pool   *pgxpool.Pool
	skippy bool
)

func TestMain(m *testing.M) {
	if !contract.Enabled() {
		skippy = true
		os.Exit(m.Run())
	}

	dsn := contract.DSNFromEnv()
	if dsn == "" {
		fmt.Println("[contract] DATABASE_URL or APP_POSTGRES_* env not set; skipping")
		skippy = true
		os.Exit(m.Run())
	}

	var err error
	db, err = contract.Migrate(dsn, filepath.Clean(filepath.Join("..", "..", "..", "migrations", "goose_sql")))
	if err != nil {
		fmt.Println("[contract]", err)
		os.Exit(1)
	}

	pool, err = newTestPool(context.Background(), dsn)
	if err != nil {
		fmt.Println("[contract] pgxpool new error:", err)
		os.Exit(1)
	}

	code := m.Run()
	pool.Close()
	db.Close()
	os.Exit(code)
}

func skipIfNeeded(t *testing.T) {
	if skippy {
		t.Skip("contract tests skipped; set CONTRACT_TESTS=1 and provide DB env")
	}
}

func makeAuthorRepo(t *testing.T) (repository.AuthorRepository, func()) {
	skipIfNeeded(t)
	contract.Truncate(t, db)
	return NewAuthorRepository(pool), func() { contract.Truncate(t, db) }
}

func makeBookRepo(t *testing.T) (repository.BookRepository, func(ctx context.Context, name string) (int64, error), func()) {
	skipIfNeeded(t)
	contract.Truncate(t, db)
	authors := NewAuthorRepository(pool)
	mkAuthor := func(ctx context.Context, name string) (int64, error) {
		a, err := authors.Create(ctx, model.Author{Name: name})
		if err != nil {
			return 0, err
		}
		return a.ID, nil
	}
	return NewBookRepository(pool), mkAuthor, func() { contract.Truncate(t, db) }
}

func makeTx(t *testing.T) (repository.TxManager, repository.AuthorRepository, func()) {
	skipIfNeeded(t)
	contract.Truncate(t, db)
	return NewTxManager(pool), NewAuthorRepository(pool), func() { contract.Truncate(t, db) }
}

func makePinger(t *testing.T) (repository.Pinger, func()) {
	skipIfNeeded(t)
	return NewPinger(pool), func() {}
}

func TestAuthorRepository_PostgresContract(t *testing.T) {
	contract.RunAuthorRepositoryContract(t, makeAuthorRepo)
}

func TestBookRepository_PostgresContract(t *testing.T) {
	contract.RunBookRepositoryContract(t, makeBookRepo)
}

func TestTxManager_PostgresContract(t *testing.T) {
	contract.RunTxManagerContract(t, makeTx)
}

func TestPinger_PostgresContract(t *testing.T) {
	contract.RunPingerContract(t, makePinger)
}

func newTestPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}
