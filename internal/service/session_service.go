package service

import (
	"context"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/models"
	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
)

// SessionState is the resolution state of the current session.
type SessionState int

const (
	SessionUnresolved SessionState = iota
	SessionAuthenticated
	SessionAnonymous
)

func (s SessionState) String() string {
	switch s {
	case SessionAuthenticated:
		return "authenticated"
	case SessionAnonymous:
		return "anonymous"
	default:
		return "unresolved"
	}
}

type authRepository interface {
	Me(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Signup(ctx context.Context, req dto.SignupRequest) (map[string]interface{}, error)
}

type tokenStore interface {
	Set(ctx context.Context, pair models.TokenPair) error
	Get(ctx context.Context) (models.TokenPair, error)
	Clear(ctx context.Context) error
}

// SessionService holds the authenticated identity. It is built once at
// startup and handed to whatever needs the current user.
type SessionService struct {
	repo      authRepository
	tokens    tokenStore
	validator *validator.Validate
	logger    *zap.Logger

	mu       sync.RWMutex
	state    SessionState
	identity *models.User
	loading  bool
}

// NewSessionService constructs a SessionService in the unresolved state.
// Loading stays true until the state first settles.
func NewSessionService(repo authRepository, tokens tokenStore, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SessionService{repo: repo, tokens: tokens, validator: validate, logger: logger, loading: true}
}

// Start resolves the stored session. Failures fall back to anonymous and are
// never returned.
func (s *SessionService) Start(ctx context.Context) SessionState {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	return s.resolve(ctx)
}

// Refresh re-resolves the identity behind the stored token.
func (s *SessionService) Refresh(ctx context.Context) SessionState {
	return s.resolve(ctx)
}

func (s *SessionService) resolve(ctx context.Context) SessionState {
	pair, err := s.tokens.Get(ctx)
	if err != nil {
		s.logger.Debug("token store read failed", zap.Error(err))
		return s.setAnonymous()
	}
	if !pair.HasAccess() {
		return s.setAnonymous()
	}

	user, err := s.repo.Me(ctx)
	if err != nil || user == nil {
		s.logger.Debug("identity resolution failed", zap.Error(err))
		return s.setAnonymous()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = user
	s.state = SessionAuthenticated
	s.loading = false
	return s.state
}

func (s *SessionService) setAnonymous() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.state = SessionAnonymous
	s.loading = false
	return s.state
}

// Login exchanges credentials, persists the returned pair and re-resolves
// the identity. Backend failures are returned untouched.
func (s *SessionService) Login(ctx context.Context, req dto.LoginRequest) (*models.User, error) {
	req.Phone = strings.TrimSpace(req.Phone)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err, map[string]string{
			"Phone":    "Phone is required.",
			"Password": "Password is required.",
		}))
	}

	resp, err := s.repo.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	pair := models.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if err := s.tokens.Set(ctx, pair); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store credentials")
	}

	s.resolve(ctx)
	return s.Identity(), nil
}

// Register creates an account. The session is left as it was.
func (s *SessionService) Register(ctx context.Context, req dto.SignupRequest) (map[string]interface{}, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err, map[string]string{
			"FullName": "Full name is required.",
		}))
	}
	return s.repo.Signup(ctx, req)
}

// Logout forgets the stored credentials. No request is sent.
func (s *SessionService) Logout(ctx context.Context) error {
	err := s.tokens.Clear(ctx)
	s.setAnonymous()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear credentials")
	}
	return nil
}

// Identity returns the current user, or nil when not authenticated.
func (s *SessionService) Identity() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// State returns the current session state.
func (s *SessionService) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Loading is true from construction until the state settles, and again
// while Start runs.
func (s *SessionService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// RequireUser returns the identity or ErrNotAuthenticated.
func (s *SessionService) RequireUser() (*models.User, error) {
	user := s.Identity()
	if user == nil {
		return nil, appErrors.ErrNotAuthenticated
	}
	return user, nil
}

// Tokens returns the stored credential pair.
func (s *SessionService) Tokens(ctx context.Context) (models.TokenPair, error) {
	return s.tokens.Get(ctx)
}
