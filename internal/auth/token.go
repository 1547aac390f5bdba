package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"budget_buddy/internal/domain"

	"gorm.io/gorm"
)

// TokenTTL is how long an issued bearer token stays valid.
const TokenTTL = 7 * 24 * time.Hour

// tokenBytes is the amount of randomness per token (256 bits, hex-encoded to 64 chars).
const tokenBytes = 32

// ErrUnauthenticated is returned whenever a token cannot be resolved to a user.
// Missing, unknown and expired tokens all fail with it so a caller cannot tell
// the causes apart.
var ErrUnauthenticated = errors.New("unauthenticated")

// TokenService issues, validates and revokes the bearer tokens stored on the
// user row. A user has at most one active token; issuing a new one supersedes
// the previous session.
type TokenService struct {
	db *gorm.DB
}

// NewTokenService creates a TokenService backed by db
func NewTokenService(db *gorm.DB) *TokenService {
	return &TokenService{db: db}
}

// Issue generates a fresh opaque token for user, persists it together with its
// expiry and returns the token string. Any previously issued token stops
// validating once the new one is written.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)
	expiry := time.Now().Add(TokenTTL)
	// Targeted column update: only the token fields change here, so the
	// write skips model-level validation.
	err := s.db.Model(user).Updates(map[string]any{
		"auth_token":       token,
		"token_expires_at": expiry,
	}).Error
	if err != nil {
		return "", err
	}
	user.AuthToken = &token
	user.TokenExpiresAt = &expiry
	return token, nil
}

// Validate resolves a bearer token to its user. The lookup is by exact token
// equality with a strictly-future expiry; everything else, storage faults
// included, fails closed with ErrUnauthenticated.
func (s *TokenService) Validate(token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	var user domain.User
	err := s.db.Where("auth_token = ? AND token_expires_at > ?", token, time.Now()).
		First(&user).Error
	if err != nil {
		return nil, ErrUnauthenticated
	}
	return &user, nil
}

// FindByToken looks a user up by raw token equality, ignoring expiry. Logout
// uses it so that an already-expired session can still be cleared.
func (s *TokenService) FindByToken(token string) (*domain.User, error) {
	if token == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var user domain.User
	if err := s.db.Where("auth_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Revoke clears the token and expiry on user. Revoking an already revoked
// user succeeds silently.
func (s *TokenService) Revoke(user *domain.User) error {
	err := s.db.Model(user).Updates(map[string]any{
		"auth_token":       nil,
		"token_expires_at": nil,
	}).Error
	if err != nil {
		return err
	}
	user.AuthToken = nil
	user.TokenExpiresAt = nil
	return nil
}
