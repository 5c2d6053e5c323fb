package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/noteshare/internal/dbx"
	"github.com/dmitrijs2005/noteshare/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/noteshare/internal/server/repositories/notes"
)

// RepositoryManager vends repositories bound to a DB handle or transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Notes(db dbx.DBTX) notes.Repository
}
