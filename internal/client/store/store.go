// Package store opens the local SQLite database, applies embedded goose
// migrations and hands out repositories bound to the database or to a
// transaction.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/sumdays/internal/client/migrations"
	"github.com/dmitrijs2005/sumdays/internal/client/repositories/dailyentries"
	"github.com/dmitrijs2005/sumdays/internal/client/repositories/memos"
	"github.com/dmitrijs2005/sumdays/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/sumdays/internal/client/repositories/styles"
	"github.com/dmitrijs2005/sumdays/internal/client/repositories/weeksummaries"
	"github.com/dmitrijs2005/sumdays/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories groups the local tables over one handle.
type Repositories struct {
	Metadata      metadata.Repository
	Memos         memos.Repository
	DailyEntries  dailyentries.Repository
	Styles        styles.Repository
	WeekSummaries weeksummaries.Repository
}

// NewRepositories binds every repository to db, which may be a *sql.DB or a *sql.Tx.
func NewRepositories(db dbx.DBTX) *Repositories {
	return &Repositories{
		Metadata:      metadata.NewSQLiteRepository(db),
		Memos:         memos.NewSQLiteRepository(db),
		DailyEntries:  dailyentries.NewSQLiteRepository(db),
		Styles:        styles.NewSQLiteRepository(db),
		WeekSummaries: weeksummaries.NewSQLiteRepository(db),
	}
}

var gooseUpContext = goose.UpContext

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Store is the local database of one device.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dsn and migrates it.
// SQLite allows one writer, so the pool is capped at a single connection
// and concurrent writers queue behind each other.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure local store: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) DB() *sql.DB {
	return s.db
}

// Repositories returns repositories that run outside any transaction.
func (s *Store) Repositories() *Repositories {
	return NewRepositories(s.db)
}

// WithTx runs fn with repositories bound to one transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, r *Repositories) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, NewRepositories(tx))
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
