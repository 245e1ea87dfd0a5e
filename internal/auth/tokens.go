package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"

	"github.com/notesapp/notes-server/internal/domain"
)

const (
	tokenIssuer   = "notes-server"
	tokenAudience = "notes-client"
)

// ErrInvalidToken is returned for any token that fails decryption or claim checks.
// ErrTokenExpired wraps it for otherwise valid tokens past their expiry.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrInvalidToken)
)

// Claims are the decrypted contents of a session token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`

	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// TokenService issues and verifies stateless PASETO v4.local session tokens.
type TokenService struct {
	key      paseto.V4SymmetricKey
	duration time.Duration
	now      func() time.Time
}

// NewTokenService creates a token service from a 32-byte symmetric key.
func NewTokenService(key []byte, duration time.Duration) (*TokenService, error) {
	if len(key) != KeyLength {
		return nil, fmt.Errorf("token key must be %d bytes, got %d", KeyLength, len(key))
	}
	if duration <= 0 {
		return nil, errors.New("token duration must be positive")
	}

	k, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("create PASETO key: %w", err)
	}

	return &TokenService{key: k, duration: duration, now: time.Now}, nil
}

// Duration returns the token lifetime.
func (s *TokenService) Duration() time.Duration {
	return s.duration
}

// Issue encrypts a token carrying the user's id, email and name.
func (s *TokenService) Issue(user *domain.User) (token string, expiresAt time.Time, err error) {
	now := s.now()
	expiresAt = now.Add(s.duration)

	t := paseto.NewToken()
	t.SetIssuer(tokenIssuer)
	t.SetAudience(tokenAudience)
	t.SetSubject(user.ID)
	t.SetIssuedAt(now)
	t.SetNotBefore(now)
	t.SetExpiration(expiresAt)
	t.SetJti(uuid.NewString())

	for k, v := range map[string]string{"user_id": user.ID, "email": user.Email, "name": user.Name} {
		if err := t.Set(k, v); err != nil {
			return "", time.Time{}, fmt.Errorf("set claim %s: %w", k, err)
		}
	}

	return t.V4Encrypt(s.key, nil), expiresAt, nil
}

// Verify decrypts token and checks issuer, audience and validity window.
// Every failure is reported as ErrInvalidToken wrapping the cause; expiry as ErrTokenExpired.
func (s *TokenService) Verify(token string) (*Claims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))

	t, err := parser.ParseV4Local(s.key, token, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	var claims Claims
	if err := json.Unmarshal(t.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("%w: decode claims: %w", ErrInvalidToken, err)
	}
	if claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, fmt.Errorf("%w: subject mismatch", ErrInvalidToken)
	}

	now := s.now()
	if now.Before(claims.NotBefore) {
		return nil, fmt.Errorf("%w: not yet valid", ErrInvalidToken)
	}
	if !now.Before(claims.Expiration) {
		return nil, ErrTokenExpired
	}

	return &claims, nil
}
