// Package gormstore implements the repositories on gorm. It shares the pgx pool
// with the postgres package and pages through gormq handles.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/maxviazov/bookshelf-paginate/internal/repository"
)

// Open wraps pool in a database/sql handle and opens gorm on it. Closing the
// returned *sql.DB is left to the pool owner.
func Open(pool *pgxpool.Pool, logger zerolog.Logger) (*gorm.DB, error) {
	if pool == nil {
		return nil, errors.New("pgx pool is nil")
	}
	sqlDB := stdlib.OpenDBFromPool(pool)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 newGormLogger(logger),
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	return db, nil
}

type txKey struct{}

// conn returns the transaction carried by ctx, or db bound to ctx.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

type txManager struct{ db *gorm.DB }

func NewTxManager(db *gorm.DB) repository.TxManager { return &txManager{db: db} }

func (m *txManager) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	return repository.MapGormError(err)
}

type pinger struct{ db *gorm.DB }

func NewPinger(db *gorm.DB) repository.Pinger { return &pinger{db: db} }

func (p *pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

var (
	_ repository.TxManager = (*txManager)(nil)
	_ repository.Pinger    = (*pinger)(nil)
)
