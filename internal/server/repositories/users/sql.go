package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/dbx"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
)

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (fname, lname, email, password, position)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query),
		user.FName, user.LName, user.Email, user.Password, user.Position).Scan(&user.ID)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, fname, lname, email, password, position FROM users
		 WHERE email = $1
		 `

	return r.scanOne(ctx, query, email)
}

func (r *SQLRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, fname, lname, email, password, position FROM users
		 WHERE id = $1
		 `

	return r.scanOne(ctx, query, id)
}

func (r *SQLRepository) scanOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), arg).
		Scan(&user.ID, &user.FName, &user.LName, &user.Email, &user.Password, &user.Position)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
