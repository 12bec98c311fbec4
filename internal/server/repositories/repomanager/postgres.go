// Package repomanager binds the PostgreSQL repositories of the sync server
// to a pool or a transaction and owns the server schema migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sumdays/internal/dbx"
	"github.com/dmitrijs2005/sumdays/internal/server/migrations"
	"github.com/dmitrijs2005/sumdays/internal/server/repositories/dailyentries"
	"github.com/dmitrijs2005/sumdays/internal/server/repositories/memos"
	"github.com/dmitrijs2005/sumdays/internal/server/repositories/styles"
	"github.com/dmitrijs2005/sumdays/internal/server/repositories/users"
	"github.com/dmitrijs2005/sumdays/internal/server/repositories/weeksummaries"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Memos(db dbx.DBTX) memos.Repository {
	return memos.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) DailyEntries(db dbx.DBTX) dailyentries.Repository {
	return dailyentries.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Styles(db dbx.DBTX) styles.Repository {
	return styles.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) WeekSummaries(db dbx.DBTX) weeksummaries.Repository {
	return weeksummaries.NewPostgresRepository(db)
}

var gooseUpContext = goose.UpContext

// RunMigrations applies the embedded goose migrations to db.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

// Pool limits. A sync holds one connection for its whole transaction.
const (
	maxOpenConns    = 20
	maxIdleConns    = 5
	connMaxIdleTime = 5 * time.Minute
)

// OpenPostgres opens a pgx-backed pool and pings it once.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
