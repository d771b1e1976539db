package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/models"
	"github.com/noah-isme/scanova-console/internal/service"
	"github.com/noah-isme/scanova-console/internal/tokenstore"
	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
)

// SessionHandler exposes login, registration and identity commands.
type SessionHandler struct {
	console *Console
	session *service.SessionService
	// afterAuth runs when the identity changes.
	afterAuth func(ctx context.Context)
}

// NewSessionHandler constructs a session handler. afterAuth may be nil.
func NewSessionHandler(console *Console, session *service.SessionService, afterAuth func(ctx context.Context)) *SessionHandler {
	return &SessionHandler{console: console, session: session, afterAuth: afterAuth}
}

// Login signs in with phone and password. The password is prompted when omitted.
func (h *SessionHandler) Login(ctx context.Context, in *Input) error {
	phone := in.Value("phone")
	if phone == "" {
		phone = in.Arg(0)
	}
	if phone == "" {
		return &UsageError{Usage: "login phone=<phone> [password=<password>]"}
	}
	password := in.Value("password")
	if password == "" {
		secret, err := h.console.ReadSecret("Password: ")
		if err != nil {
			return err
		}
		password = secret
	}

	user, err := h.session.Login(ctx, dto.LoginRequest{Phone: phone, Password: password})
	if err != nil {
		return err
	}
	if user == nil {
		h.console.Println("Signed in, but your profile could not be loaded.")
	} else {
		h.console.Printf("Signed in as %s.\n", user.DisplayName())
	}
	if h.afterAuth != nil {
		h.afterAuth(ctx)
	}
	return nil
}

// Register creates an account. Login is still required afterwards.
func (h *SessionHandler) Register(ctx context.Context, in *Input) error {
	req := dto.SignupRequest{
		FullName: in.Value("full_name"),
		Phone:    in.Value("phone"),
		Email:    in.Value("email"),
		Password: in.Value("password"),
	}
	if req.FullName == "" {
		req.FullName = in.Value("name")
	}
	if req.Password == "" {
		secret, err := h.console.ReadSecret("Password: ")
		if err != nil {
			return err
		}
		req.Password = secret
	}
	if _, err := h.session.Register(ctx, req); err != nil {
		return err
	}
	h.console.Println("Account created. Log in to continue.")
	return nil
}

// Logout forgets the stored credentials.
func (h *SessionHandler) Logout(ctx context.Context, in *Input) error {
	if err := h.session.Logout(ctx); err != nil {
		return err
	}
	h.console.Println("Signed out.")
	if h.afterAuth != nil {
		h.afterAuth(ctx)
	}
	return nil
}

// WhoAmI prints the current identity.
func (h *SessionHandler) WhoAmI(ctx context.Context, in *Input) error {
	user := h.session.Identity()
	if user == nil {
		h.console.Println("Not signed in.")
		return nil
	}
	h.console.Table(nil, identityRows(user))
	return nil
}

func identityRows(user *models.User) [][]string {
	role := user.RoleName
	if user.IsGuest() {
		role = models.RoleGuest
	}
	return [][]string{
		{"id", user.ID},
		{"name", orDash(user.FullName)},
		{"phone", orDash(user.Phone)},
		{"email", orDash(user.Email)},
		{"role", orDash(role)},
		{"organization", orDash(user.OrgID)},
	}
}

// Token prints what the stored access token claims, without verifying it.
func (h *SessionHandler) Token(ctx context.Context, in *Input) error {
	pair, err := h.session.Tokens(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, 0, "Could not read the token store.")
	}
	if !pair.HasAccess() {
		h.console.Println("No access token stored.")
		return nil
	}
	rows := [][]string{{"refresh token", fmt.Sprintf("%t", pair.RefreshToken != "")}}
	info, err := tokenstore.Inspect(pair.AccessToken)
	if err != nil {
		rows = append(rows, []string{"access token", "opaque"})
		h.console.Table(nil, rows)
		return nil
	}
	rows = append(rows, []string{"subject", orDash(info.Subject)})
	if !info.IssuedAt.IsZero() {
		rows = append(rows, []string{"issued", info.IssuedAt.Local().Format(time.RFC1123)})
	}
	if !info.ExpiresAt.IsZero() {
		rows = append(rows, []string{"expires", info.ExpiresAt.Local().Format(time.RFC1123)})
		rows = append(rows, []string{"expired", fmt.Sprintf("%t", info.Expired(time.Now()))})
	}
	h.console.Table(nil, rows)
	return nil
}

// Authenticated wraps fn so that it only runs with a signed-in user.
func (h *SessionHandler) Authenticated(fn CommandFunc) CommandFunc {
	return func(ctx context.Context, in *Input) error {
		if _, err := h.session.RequireUser(); err != nil {
			return err
		}
		return fn(ctx, in)
	}
}
