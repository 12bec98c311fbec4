package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/sumdays/internal/dbx"
	"github.com/dmitrijs2005/sumdays/internal/server/repositories/dailyentries"
	"github.com/dmitrijs2005/sumdays/internal/server/repositories/memos"
	"github.com/dmitrijs2005/sumdays/internal/server/repositories/styles"
	"github.com/dmitrijs2005/sumdays/internal/server/repositories/users"
	"github.com/dmitrijs2005/sumdays/internal/server/repositories/weeksummaries"
)

// RepositoryManager vends repositories bound to a *sql.DB or a *sql.Tx, so
// services can run several of them inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Memos(db dbx.DBTX) memos.Repository
	DailyEntries(db dbx.DBTX) dailyentries.Repository
	Styles(db dbx.DBTX) styles.Repository
	WeekSummaries(db dbx.DBTX) weeksummaries.Repository
}
