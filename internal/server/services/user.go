// Package services contains server-side business logic. This file implements
// UserService, which handles registration, password login, session
// validation with access token reissue, and logout.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/auth"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/config"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/repomanager"
)

// tokenIDAttempts bounds retries on the (practically impossible) event of a
// token identifier collision.
const tokenIDAttempts = 3

// RegisterInput is the account data accepted by Register.
type RegisterInput struct {
	FName    string
	LName    string
	Email    string
	Password string
	Position string
}

// Session is what a successful login hands to the transport layer.
type Session struct {
	TokenID      string
	AccessToken  string
	RefreshToken string
	User         models.User
}

// Validation is the outcome of checking a session. AccessToken is set only
// when a new access token was minted and has to be sent back to the client.
type Validation struct {
	User        models.User
	AccessToken string
}

// Reissued reports whether the caller must replace its access token.
func (v *Validation) Reissued() bool { return v.AccessToken != "" }

// UserService provides authentication-related operations:
// - Register: create users with bcrypt-hashed passwords
// - Login: verify credentials, mint tokens and persist the session
// - Validate: accept a live access token or reissue one from the session
// - Logout: revoke the session
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
	bcryptCost  int
	logger      logging.Logger
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &UserService{
		db:          db,
		repomanager: m,
		issuer: auth.NewIssuer(cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
			cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration),
		bcryptCost: cfg.BcryptCost,
		logger:     logger.With("module", "users"),
	}
}

// Register hashes the password and stores a new account. A taken email yields
// common.ErrorAlreadyExists, missing email or password common.ErrorInvalidInput.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, common.ErrorInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, common.ErrorInvalidInput
		}
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	user := &models.User{
		FName:    in.FName,
		LName:    in.LName,
		Email:    email,
		Password: string(hash),
		Position: in.Position,
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		s.logger.Error(ctx, "error creating user", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	pub := u.Public()
	return &pub, nil
}

// Login checks credentials and opens a new session.
// An empty or unknown email yields common.ErrorNotFound, a wrong or empty
// password common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, common.ErrorNotFound
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "error loading user", "error", err)
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "password check failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	pub := user.Public()

	access, err := s.issuer.IssueAccess(pub)
	if err != nil {
		s.logger.Error(ctx, "error issuing access token", "error", err)
		return nil, common.ErrorInternal
	}
	refresh, err := s.issuer.IssueRefresh(pub)
	if err != nil {
		s.logger.Error(ctx, "error issuing refresh token", "error", err)
		return nil, common.ErrorInternal
	}

	tokenID, err := s.storeRefreshToken(ctx, user.ID, refresh)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &Session{TokenID: tokenID, AccessToken: access, RefreshToken: refresh, User: pub}, nil
}

// Validate resolves the session behind tokenID.
//
// A valid access token belonging to the session's user is accepted as is.
// Otherwise the stored refresh token is verified, the profile of the user it
// names is re-read and a new access token is minted for it. Sessions that are
// unknown, past their expiry, whose refresh token no longer verifies or whose
// user is gone yield common.ErrorUnauthorized; all but unknown ones are
// deleted on the way out.
func (s *UserService) Validate(ctx context.Context, tokenID, accessToken string) (*Validation, error) {
	if tokenID == "" {
		return nil, common.ErrorUnauthorized
	}

	repo := s.repomanager.RefreshTokens(s.db)

	record, err := repo.Find(ctx, tokenID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "error loading session", "error", err)
		return nil, common.ErrorInternal
	}

	if record.Expired(s.issuer.Now()) {
		return nil, s.revoke(ctx, tokenID)
	}

	if accessToken != "" {
		claims, err := s.issuer.ParseAccess(accessToken)
		if err == nil && claims.UserID == record.UserID {
			return &Validation{User: claims.User()}, nil
		}
	}

	claims, err := s.issuer.ParseRefresh(record.Token)
	if err != nil || claims.UserID != record.UserID {
		return nil, s.revoke(ctx, tokenID)
	}

	stored, err := s.repomanager.Users(s.db).GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, s.revoke(ctx, tokenID)
		}
		s.logger.Error(ctx, "error loading user", "user_id", claims.UserID, "error", err)
		return nil, common.ErrorInternal
	}

	user := stored.Public()
	access, err := s.issuer.IssueAccess(user)
	if err != nil {
		s.logger.Error(ctx, "error issuing access token", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Debug(ctx, "access token reissued", "user_id", user.ID)
	return &Validation{User: user, AccessToken: access}, nil
}

// Logout deletes the session behind tokenID. An empty or unknown identifier
// is not an error.
func (s *UserService) Logout(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return nil
	}
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, tokenID); err != nil {
		s.logger.Error(ctx, "error deleting session", "error", err)
		return common.ErrorInternal
	}
	return nil
}

// --- helpers below ---

func (s *UserService) storeRefreshToken(ctx context.Context, userID int64, refresh string) (string, error) {
	repo := s.repomanager.RefreshTokens(s.db)
	now := s.issuer.Now()

	for attempt := 0; attempt < tokenIDAttempts; attempt++ {
		tokenID, err := common.NewTokenID()
		if err != nil {
			s.logger.Error(ctx, "error generating token id", "error", err)
			return "", common.ErrorInternal
		}

		err = repo.Create(ctx, &models.RefreshToken{
			TokenID:   tokenID,
			UserID:    userID,
			Token:     refresh,
			ExpiresAt: now.Add(s.issuer.RefreshTTL()),
			CreatedAt: now,
		})
		if err == nil {
			return tokenID, nil
		}
		if !errors.Is(err, common.ErrorAlreadyExists) {
			s.logger.Error(ctx, "error storing session", "error", err)
			return "", common.ErrorInternal
		}
	}

	s.logger.Error(ctx, "token id collisions exhausted retries")
	return "", common.ErrorInternal
}

// revoke drops a dead session and reports the caller as unauthorized.
func (s *UserService) revoke(ctx context.Context, tokenID string) error {
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, tokenID); err != nil {
		s.logger.Error(ctx, "error deleting session", "error", err)
		return common.ErrorInternal
	}
	return common.ErrorUnauthorized
}
