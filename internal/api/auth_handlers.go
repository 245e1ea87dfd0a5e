package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Log in",
		Description: "Verifies credentials and returns a bearer token",
		Tags:        []string{"Auth"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/register",
		Summary:       "Register",
		Description:   "Creates an account with the default tag set",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
	}, s.handleRegister)
}

// === DTOs ===

// UserSummary is the account as returned by the auth endpoints.
type UserSummary struct {
	ID        string  `json:"id" doc:"User ID"`
	Name      string  `json:"name" doc:"Display name"`
	Email     string  `json:"email" doc:"Email address"`
	AvatarURL *string `json:"avatar_url,omitempty" doc:"Avatar image URL"`
}

func newUserSummary(u *domain.User) UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, AvatarURL: u.AvatarURL}
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email,omitempty" doc:"Account email"`
	Password string `json:"password,omitempty" doc:"Account password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	UserAgent string `header:"User-Agent"`
	Body      LoginRequest
}

// LoginResponse contains the issued token.
type LoginResponse struct {
	Message   string      `json:"message" doc:"Status message"`
	Token     string      `json:"token" doc:"PASETO bearer token"`
	ExpiresAt time.Time   `json:"expiresAt" doc:"Token expiry"`
	User      UserSummary `json:"user" doc:"Authenticated user"`
}

// LoginOutput wraps the login response for Huma.
type LoginOutput struct {
	Body LoginResponse
}

// RegisterRequest is the request body for creating an account.
type RegisterRequest struct {
	Name     string `json:"name,omitempty" doc:"Display name"`
	Email    string `json:"email,omitempty" doc:"Email address"`
	Password string `json:"password,omitempty" doc:"Password, at least 6 characters"`
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body RegisterRequest
}

// RegisterResponse contains the new account.
type RegisterResponse struct {
	Message string      `json:"message" doc:"Status message"`
	User    UserSummary `json:"user" doc:"Created user"`
}

// RegisterOutput wraps the register response for Huma.
type RegisterOutput struct {
	Body RegisterResponse
}

// === Handlers ===

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	result, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Email:     input.Body.Email,
		Password:  input.Body.Password,
		UserAgent: input.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	return &LoginOutput{Body: LoginResponse{
		Message:   "Login successful",
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      newUserSummary(result.User),
	}}, nil
}

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	user, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Name:     input.Body.Name,
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &RegisterOutput{Body: RegisterResponse{
		Message: "User created successfully",
		User:    newUserSummary(user),
	}}, nil
}
