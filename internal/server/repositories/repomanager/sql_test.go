package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/dbx"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/users"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNewSQLRepositoryManager(t *testing.T) {
	m, err := NewSQLRepositoryManager(dbx.DialectPostgres, nil)
	require.NoError(t, err)
	var _ RepositoryManager = m

	_, err = NewSQLRepositoryManager(dbx.Dialect("oracle"), nil)
	assert.Error(t, err)
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := &SQLRepositoryManager{dialect: dbx.DialectPostgres}

	if u := m.Users(db); u == nil {
		t.Fatal("Users() nil")
	}
	if rt := m.RefreshTokens(db); rt == nil {
		t.Fatal("RefreshTokens() nil")
	}

	var _ users.Repository = m.Users(db)
	var _ refreshtokens.Repository = m.RefreshTokens(db)
}

func TestRunMigrations_UsesDialectDirectory(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	for dialect, wantDir := range map[dbx.Dialect]string{
		dbx.DialectPostgres: "postgres",
		dbx.DialectSQLite:   "sqlite",
	} {
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			if dir != wantDir {
				return errors.New("unexpected dir " + dir)
			}
			if len(opts) != 0 {
				return errors.New("unexpected opts")
			}
			return nil
		}

		m := &SQLRepositoryManager{dialect: dialect}
		if err := m.RunMigrations(context.Background(), db); err != nil {
			t.Fatalf("RunMigrations(%s) error: %v", dialect, err)
		}
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := &SQLRepositoryManager{dialect: dbx.DialectPostgres}
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestOpenDB_BadDriverDSN(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := OpenDB(ctx, dbx.DialectPostgres, "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1", PoolOptions{})
	assert.Error(t, err)
}

// End to end on embedded SQLite: real migrations, real repositories.
func TestSQLite_MigrateAndUseRepositories(t *testing.T) {
	ctx := context.Background()

	db, err := OpenDB(ctx, dbx.DialectSQLite, "file:repomanager_test?mode=memory&cache=shared&_pragma=foreign_keys(1)&_time_format=sqlite", PoolOptions{MaxOpenConns: 1})
	require.NoError(t, err)
	defer db.Close()

	m, err := NewSQLRepositoryManager(dbx.DialectSQLite, nil)
	require.NoError(t, err)
	require.NoError(t, m.RunMigrations(ctx, db))

	u, err := m.Users(db).Create(ctx, &models.User{FName: "A", LName: "B", Email: "a@b.c", Password: "h", Position: "p"})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	_, err = m.Users(db).Create(ctx, &models.User{FName: "A", LName: "B", Email: "a@b.c", Password: "h"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	byEmail, err := m.Users(db).GetUserByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	now := time.Now().UTC().Truncate(time.Second)
	rt := m.RefreshTokens(db)
	require.NoError(t, rt.Create(ctx, &models.RefreshToken{TokenID: "live", UserID: u.ID, Token: "t1", ExpiresAt: now.Add(time.Hour), CreatedAt: now}))
	require.NoError(t, rt.Create(ctx, &models.RefreshToken{TokenID: "dead", UserID: u.ID, Token: "t2", ExpiresAt: now.Add(-time.Hour), CreatedAt: now}))

	err = rt.Create(ctx, &models.RefreshToken{TokenID: "live", UserID: u.ID, Token: "t3", ExpiresAt: now, CreatedAt: now})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	got, err := rt.Find(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.Token)
	assert.True(t, got.ExpiresAt.Equal(now.Add(time.Hour)))

	n, err := rt.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = rt.Find(ctx, "dead")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, rt.Delete(ctx, "live"))
	require.NoError(t, rt.Delete(ctx, "live"))
	_, err = rt.Find(ctx, "live")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
