package repository

import (
	"context"
	"net/http"

	"github.com/noah-isme/scanova-console/internal/apiclient"
	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/models"
)

// AuthRepository wraps the /auth endpoints.
type AuthRepository struct {
	api API
}

// NewAuthRepository constructs an auth repository.
func NewAuthRepository(api API) *AuthRepository {
	return &AuthRepository{api: api}
}

// Me resolves the identity behind the stored access token.
func (r *AuthRepository) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := r.api.Do(ctx, http.MethodGet, "/auth/me", apiclient.RequestOptions{}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges phone/password for a credential pair.
func (r *AuthRepository) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	var resp dto.LoginResponse
	if err := r.api.Do(ctx, http.MethodPost, "/auth/login", apiclient.RequestOptions{Body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup registers a new account and returns the backend response untouched.
func (r *AuthRepository) Signup(ctx context.Context, req dto.SignupRequest) (map[string]interface{}, error) {
	resp := map[string]interface{}{}
	if err := r.api.Do(ctx, http.MethodPost, "/auth/signup", apiclient.RequestOptions{Body: req}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
