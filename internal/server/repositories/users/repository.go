// Package users declares the account store and its SQL implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in its generated ID. A taken email
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByEmail returns common.ErrorNotFound when no account matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}
