package repomanager

import (
	"context"
	"database/sql"

	"github.com/weatherdesk/weatherdesk/internal/dbx"
	"github.com/weatherdesk/weatherdesk/internal/server/repositories/history"
	"github.com/weatherdesk/weatherdesk/internal/server/repositories/memory"
	"github.com/weatherdesk/weatherdesk/internal/server/repositories/users"
)

// MemoryRepositoryManager serves every repository from one shared in-memory
// database. The DBTX argument is ignored.
type MemoryRepositoryManager struct {
	db *memory.DB
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{db: memory.New()}
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.db.Users()
}

func (m *MemoryRepositoryManager) History(dbx.DBTX) history.Repository {
	return m.db.History()
}

// RunMigrations is a no-op; the in-memory store has no schema.
func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}
