// Package auth issues and verifies the signed tokens that back a session.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
)

// Claims carries the public user record next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"id"`
	FName    string `json:"fname"`
	LName    string `json:"lname"`
	Email    string `json:"email"`
	Position string `json:"position"`
}

// User rebuilds the public user record from the claims.
func (c *Claims) User() models.User {
	return models.User{
		ID:       c.UserID,
		FName:    c.FName,
		LName:    c.LName,
		Email:    c.Email,
		Position: c.Position,
	}
}

func newClaims(user models.User, issuedAt time.Time, validityDuration time.Duration) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(validityDuration)),
		},
		UserID:   user.ID,
		FName:    user.FName,
		LName:    user.LName,
		Email:    user.Email,
		Position: user.Position,
	}
}

// generateToken signs an HS256 token for user, issued at now.
func generateToken(user models.User, secretKey []byte, now time.Time, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, newClaims(user, now, validityDuration))

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// parseToken verifies tokenString with secretKey and returns its claims.
// An expired token yields common.ErrTokenExpired; any other failure
// (bad signature, wrong algorithm, malformed input) yields common.ErrInvalidToken.
func parseToken(tokenString string, secretKey []byte, now func() time.Time) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// Issuer mints and verifies access and refresh tokens. The two kinds use
// distinct secrets, so a refresh token never verifies as an access token.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewIssuer returns an Issuer for the given secrets and lifetimes.
func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	c := *i
	c.now = now
	return &c
}

// RefreshTTL is the lifetime of refresh tokens.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// Now is the issuer's clock.
func (i *Issuer) Now() time.Time { return i.now() }

func (i *Issuer) IssueAccess(user models.User) (string, error) {
	return generateToken(user.Public(), i.accessSecret, i.now(), i.accessTTL)
}

func (i *Issuer) IssueRefresh(user models.User) (string, error) {
	return generateToken(user.Public(), i.refreshSecret, i.now(), i.refreshTTL)
}

func (i *Issuer) ParseAccess(token string) (*Claims, error) {
	return parseToken(token, i.accessSecret, i.now)
}

func (i *Issuer) ParseRefresh(token string) (*Claims, error) {
	return parseToken(token, i.refreshSecret, i.now)
}
