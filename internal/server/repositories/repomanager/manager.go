// Package repomanager vends the SQL-backed repositories for the configured
// dialect, opens the connection pool and applies the embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/sessionkeeper/internal/dbx"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
