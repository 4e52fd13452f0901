package repomanager

import (
	"context"
	"database/sql"

	"github.com/weatherdesk/weatherdesk/internal/dbx"
	"github.com/weatherdesk/weatherdesk/internal/server/repositories/history"
	"github.com/weatherdesk/weatherdesk/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX so services can run
// them against a pool or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	History(db dbx.DBTX) history.Repository
}
