package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/sessionkeeper/internal/dbx"
	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/users"
)

// SQLRepositoryManager builds repositories that speak the given dialect.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
	logger  logging.Logger
}

// NewSQLRepositoryManager constructs a RepositoryManager for dialect.
// Migration progress is written to logger; nil discards it.
func NewSQLRepositoryManager(dialect dbx.Dialect, logger logging.Logger) (RepositoryManager, error) {
	if _, err := dbx.ParseDialect(string(dialect)); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &SQLRepositoryManager{dialect: dialect, logger: logger.With("module", "migrations")}, nil
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db, m.dialect)
}

// RefreshTokens returns a refreshtokens.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewSQLRepository(db, m.dialect)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations of the manager's
// dialect and applies them.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	l := m.logger
	if l == nil {
		l = logging.NewNopLogger()
	}
	goose.SetLogger(&gooseLogger{ctx: ctx, l: l})
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect.GooseDialect()); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, m.dialect.MigrationsDir()); err != nil {
		return err
	}
	return nil
}

// PoolOptions bounds the database/sql connection pool.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// OpenDB opens and pings a pool for dialect. The caller owns the returned DB.
func OpenDB(ctx context.Context, dialect dbx.Dialect, dsn string, pool PoolOptions) (*sql.DB, error) {
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return db, nil
}
