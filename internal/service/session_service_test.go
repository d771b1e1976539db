package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/models"
	"github.com/noah-isme/scanova-console/internal/tokenstore"
	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
)

func TestSessionStartWithoutTokenSkipsNetwork(t *testing.T) {
	repo := &mockAuthRepo{me: ownerUser}
	svc := NewSessionService(repo, tokenstore.NewMemoryStore(), nil, zap.NewNop())
	assert.Equal(t, SessionUnresolved, svc.State())
	assert.True(t, svc.Loading())

	state := svc.Start(context.Background())
	assert.Equal(t, SessionAnonymous, state)
	assert.Equal(t, 0, repo.meCalls)
	assert.Nil(t, svc.Identity())
	assert.False(t, svc.Loading())
}

func TestSessionStartResolvesIdentity(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), models.TokenPair{AccessToken: "a"}))

	repo := &mockAuthRepo{me: &models.User{ID: "u1", FullName: "Jane Doe"}}
	svc := NewSessionService(repo, store, nil, nil)
	assert.Equal(t, SessionAuthenticated, svc.Start(context.Background()))
	assert.Equal(t, "u1", svc.Identity().ID)

	repo.meErr = appErrors.FromStatus(401, "Could not validate credentials", nil)
	assert.Equal(t, SessionAnonymous, svc.Start(context.Background()))
	assert.Nil(t, svc.Identity())
}

func TestSessionLoadingEndsWhenLoginSettles(t *testing.T) {
	repo := &mockAuthRepo{
		login: &dto.LoginResponse{AccessToken: "a"},
		me:    &models.User{ID: "u1"},
	}
	svc := NewSessionService(repo, tokenstore.NewMemoryStore(), nil, nil)
	require.True(t, svc.Loading())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Phone: "017", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, SessionAuthenticated, svc.State())
	assert.False(t, svc.Loading())

	require.NoError(t, svc.Logout(context.Background()))
	assert.False(t, svc.Loading())
}

func TestSessionLoginScenario(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	repo := &mockAuthRepo{
		login: &dto.LoginResponse{AccessToken: "a", RefreshToken: "r"},
		me:    &models.User{ID: "u1", FullName: "Jane Doe"},
	}
	svc := NewSessionService(repo, store, nil, nil)
	svc.Start(context.Background())

	user, err := svc.Login(context.Background(), dto.LoginRequest{Phone: "017...", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, &models.User{ID: "u1", FullName: "Jane Doe"}, user)

	pair, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.TokenPair{AccessToken: "a", RefreshToken: "r"}, pair)
	assert.Equal(t, 1, repo.meCalls)
	assert.Equal(t, SessionAuthenticated, svc.State())
}

func TestSessionLoginFailurePropagates(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	failure := appErrors.FromStatus(401, "Incorrect phone or password", map[string]interface{}{"detail": "Incorrect phone or password"})
	repo := &mockAuthRepo{loginErr: failure}
	svc := NewSessionService(repo, store, nil, nil)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Phone: "017", Password: "bad"})
	require.Error(t, err)
	assert.Same(t, failure, err)
	assert.Len(t, repo.logins, 1)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Phone: " ", Password: "x"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Len(t, repo.logins, 1)
}

func TestSessionRegisterLeavesStateAlone(t *testing.T) {
	repo := &mockAuthRepo{}
	svc := NewSessionService(repo, tokenstore.NewMemoryStore(), nil, nil)
	svc.Start(context.Background())

	_, err := svc.Register(context.Background(), dto.SignupRequest{FullName: "Nadia", Phone: "018", Password: "123"})
	require.Error(t, err)
	assert.Equal(t, "Password must be at least 6 characters.", appErrors.Message(err, ""))
	assert.Empty(t, repo.signups)

	resp, err := svc.Register(context.Background(), dto.SignupRequest{FullName: " Nadia ", Phone: "018", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "u9", resp["id"])
	assert.Equal(t, "Nadia", repo.signups[0].FullName)
	assert.Equal(t, SessionAnonymous, svc.State())
}

func TestSessionLogoutClearsTokens(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), models.TokenPair{AccessToken: "a", RefreshToken: "r"}))
	repo := &mockAuthRepo{me: ownerUser}
	svc := NewSessionService(repo, store, nil, nil)
	svc.Start(context.Background())
	calls := repo.meCalls

	require.NoError(t, svc.Logout(context.Background()))
	pair, _ := store.Get(context.Background())
	assert.True(t, pair.IsEmpty())
	assert.Equal(t, SessionAnonymous, svc.State())
	assert.Equal(t, calls, repo.meCalls)

	_, err := svc.RequireUser()
	assert.True(t, errors.Is(err, appErrors.ErrNotAuthenticated))
}
