package storage

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/brimon/internal/dbx"
	"github.com/dmitrijs2005/brimon/internal/migrations"
	"github.com/dmitrijs2005/brimon/internal/repositories/metadata"
	"github.com/dmitrijs2005/brimon/internal/repositories/orders"
	"github.com/dmitrijs2005/brimon/internal/repositories/projects"
	"github.com/dmitrijs2005/brimon/internal/repositories/tasks"
	"github.com/dmitrijs2005/brimon/internal/repositories/users"
)

// Manager vends repositories bound to a DBTX, so the same code runs against
// the database or inside dbx.WithTx.
type Manager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	Orders(db dbx.DBTX) orders.Repository
	Projects(db dbx.DBTX) projects.Repository
	Metadata(db dbx.DBTX) metadata.Repository
}

// SQLiteManager vends the SQLite-backed repositories.
type SQLiteManager struct{}

func NewSQLiteManager() *SQLiteManager {
	return &SQLiteManager{}
}

func (m *SQLiteManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteManager) Tasks(db dbx.DBTX) tasks.Repository {
	return tasks.NewSQLiteRepository(db)
}

func (m *SQLiteManager) Orders(db dbx.DBTX) orders.Repository {
	return orders.NewSQLiteRepository(db)
}

func (m *SQLiteManager) Projects(db dbx.DBTX) projects.Repository {
	return projects.NewSQLiteRepository(db)
}

func (m *SQLiteManager) Metadata(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// migrateUp is a seam for testing migrations.Up.
var migrateUp = migrations.Up

// RunMigrations applies the embedded goose migrations.
func (m *SQLiteManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrateUp(ctx, db)
}
