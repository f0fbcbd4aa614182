package models

import "time"

// RefreshToken binds an opaque token identifier (the tokenId cookie) to a
// signed refresh token and its owner. ExpiresAt mirrors the token's exp claim
// so expired records can be swept without parsing tokens.
type RefreshToken struct {
	TokenID   string
	UserID    int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the record is no longer usable at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
