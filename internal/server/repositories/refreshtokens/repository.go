// Package refreshtokens declares the session store: refresh tokens keyed by
// the opaque token identifier handed to the browser.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
)

// Repository defines operations for issuing, retrieving and revoking sessions.
type Repository interface {
	// Create stores token under token.TokenID. An identifier collision yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, token *models.RefreshToken) error

	// Find looks a session up by its identifier and returns
	// common.ErrorNotFound when it is absent.
	Find(ctx context.Context, tokenID string) (*models.RefreshToken, error)

	// Delete removes a session. Deleting a non-existent one is not an error.
	Delete(ctx context.Context, tokenID string) error

	// DeleteExpired removes every session whose expiry is at or before now
	// and reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
