package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mileusna/useragent"

	"github.com/notesapp/notes-server/internal/auth"
	"github.com/notesapp/notes-server/internal/domain"
	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/id"
	"github.com/notesapp/notes-server/internal/metrics"
	"github.com/notesapp/notes-server/internal/store"
)

const invalidCredentialsMessage = "invalid email or password"

// AuthService registers accounts, checks credentials and issues session tokens.
type AuthService struct {
	store   store.UserStore
	hasher  *auth.PasswordHasher
	tokens  *auth.TokenService
	metrics *metrics.Metrics
	logger  *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.UserStore,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenService,
	m *metrics.Metrics,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:   store,
		hasher:  hasher,
		tokens:  tokens,
		metrics: m,
		logger:  discardLogger(logger),
	}
}

// RegisterRequest contains the fields of the registration form.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=1024"`
}

// LoginRequest contains user credentials. UserAgent is taken from the request header.
type LoginRequest struct {
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	UserAgent string `json:"-"`
}

// LoginResult is a successful login: the signed token and the user it names.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Identity is the caller as established by a verified token.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// Register creates an account together with the default tag catalog and settings.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (_ *domain.User, err error) {
	defer func() { s.metrics.ObserveAuthAttempt("register", err) }()

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) || errors.Is(err, auth.ErrPasswordEmpty) {
			return nil, domainerrors.FieldError("password", err.Error())
		}
		return nil, internalError(s.logger, "hash password", err)
	}

	userID, err := id.Generate(id.User)
	if err != nil {
		return nil, internalError(s.logger, "generate user id", err)
	}

	avatar := domain.DefaultAvatarURL
	user := &domain.User{
		ID:           userID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		AvatarURL:    &avatar,
	}
	user.InitTimestamps()
	user.LastLogin = user.CreatedAt

	tags, err := newTags(userID, domain.DefaultTags, user.CreatedAt)
	if err != nil {
		return nil, internalError(s.logger, "generate tag ids", err)
	}

	if err := s.store.RegisterUser(ctx, user, tags, domain.DefaultSettings(userID)); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("User already exists")
		}
		return nil, internalError(s.logger, "register user", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "default_tags", len(tags))
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown emails and wrong
// passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (_ *LoginResult, err error) {
	defer func() { s.metrics.ObserveAuthAttempt("login", err) }()

	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.hasher.Verify(s.unknownUserHash(), req.Password)
			return nil, domainerrors.InvalidCredentials(invalidCredentialsMessage)
		}
		return nil, internalError(s.logger, "lookup user", err)
	}

	if !s.hasher.Verify(user.PasswordHash, req.Password) {
		return nil, domainerrors.InvalidCredentials(invalidCredentialsMessage)
	}

	user.LastLogin = domain.Now()
	if err := s.store.UpdateLastLogin(ctx, user.ID, user.LastLogin); err != nil {
		s.logger.Warn("failed to update last login", "user_id", user.ID, "error", err)
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, internalError(s.logger, "issue token", err)
	}

	ua := useragent.Parse(req.UserAgent)
	s.logger.Info("user logged in",
		"user_id", user.ID,
		"browser", orUnknown(ua.Name),
		"os", orUnknown(ua.OS),
		"device", deviceKind(ua),
	)

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// unknownUserHash is verified against when the email has no account, so a login for an
// unknown email costs the same argon2 work as a wrong password.
func (s *AuthService) unknownUserHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("unknown-user-password")
		if err != nil {
			s.logger.Warn("failed to prepare unknown user hash", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// VerifyToken checks a bearer token and returns the identity it carries.
func (s *AuthService) VerifyToken(token string) (*Identity, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.metrics.ObserveAuthAttempt("token", err)
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, domainerrors.TokenExpired("Token expired").WithCause(err)
		}
		return nil, domainerrors.Unauthorized("Invalid or expired token").WithCause(err)
	}
	return &Identity{UserID: claims.UserID, Email: claims.Email, Name: claims.Name}, nil
}

// IdentifyRequest parses an Authorization header of the form "Bearer <token>".
func (s *AuthService) IdentifyRequest(authHeader string) (*Identity, error) {
	if authHeader == "" {
		return nil, domainerrors.Unauthorized("Missing authorization header")
	}
	scheme, token, ok := strings.Cut(authHeader, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return nil, domainerrors.Unauthorized("Invalid authorization header format")
	}
	return s.VerifyToken(token)
}

func newTags(ownerID string, specs []domain.TagSpec, at time.Time) ([]*domain.Tag, error) {
	tags := make([]*domain.Tag, 0, len(specs))
	for _, spec := range specs {
		tagID, err := id.Generate(id.Tag)
		if err != nil {
			return nil, err
		}
		tags = append(tags, &domain.Tag{
			ID:        tagID,
			Name:      spec.Name,
			Color:     spec.Color,
			OwnerID:   ownerID,
			CreatedAt: at,
		})
	}
	return tags, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func deviceKind(ua useragent.UserAgent) string {
	switch {
	case ua.Bot:
		return "bot"
	case ua.Tablet:
		return "tablet"
	case ua.Mobile:
		return "mobile"
	case ua.Desktop:
		return "desktop"
	default:
		return "unknown"
	}
}
