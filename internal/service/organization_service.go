package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/scanova-console/internal/models"
	"github.com/noah-isme/scanova-console/internal/notify"
	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
)

type organizationRepository interface {
	Mine(ctx context.Context) (*models.Organization, error)
}

type roleRepository interface {
	Roles(ctx context.Context) ([]string, error)
	Leave(ctx context.Context) error
}

type sessionRefresher interface {
	identitySource
	Refresh(ctx context.Context) SessionState
}

// OrganizationService ties the organization overview together: the org
// itself, invitable roles, leaving, and the combined refresh.
type OrganizationService struct {
	orgs        organizationRepository
	membership  roleRepository
	session     sessionRefresher
	courses     *CourseService
	members     *MemberService
	invitations *InvitationService
	toasts      Notifier
	confirm     Confirmation
	logger      *zap.Logger

	mu    sync.RWMutex
	org   *models.Organization
	roles []string
}

// NewOrganizationService constructs an OrganizationService and registers it
// as the reload hook for invitation responses.
func NewOrganizationService(
	orgs organizationRepository,
	membership roleRepository,
	session sessionRefresher,
	courses *CourseService,
	members *MemberService,
	invitations *InvitationService,
	deps ListDeps,
) *OrganizationService {
	deps = deps.withDefaults()
	s := &OrganizationService{
		orgs:        orgs,
		membership:  membership,
		session:     session,
		courses:     courses,
		members:     members,
		invitations: invitations,
		toasts:      deps.Toasts,
		confirm:     deps.Confirm,
		logger:      deps.Logger,
		roles:       []string{},
	}
	if invitations != nil {
		invitations.OnResponded(func(ctx context.Context) {
			s.RefreshAll(ctx)
		})
	}
	return s
}

// Load fetches the caller's organization. Guests and failures yield nil.
func (s *OrganizationService) Load(ctx context.Context) *models.Organization {
	var org *models.Organization
	if !s.session.Identity().IsGuest() {
		got, err := s.orgs.Mine(ctx)
		if err != nil {
			s.logger.Debug("organization load failed", zap.Error(err))
		} else {
			org = got
		}
	}
	s.mu.Lock()
	s.org = org
	s.mu.Unlock()
	return org
}

// Current returns the last loaded organization.
func (s *OrganizationService) Current() *models.Organization {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.org
}

// DisplayName is the organization name, "Guest" for guests, or "-" when unknown.
func (s *OrganizationService) DisplayName() string {
	if org := s.Current(); org != nil && org.Name != "" {
		return org.Name
	}
	if s.session.Identity().IsGuest() {
		return "Guest"
	}
	return "-"
}

// LoadRoles fetches the invitable roles. Owner only; failures yield none.
func (s *OrganizationService) LoadRoles(ctx context.Context) []string {
	roles := []string{}
	user := s.session.Identity()
	if user.IsOwner() && !user.IsGuest() {
		got, err := s.membership.Roles(ctx)
		if err != nil {
			s.logger.Debug("roles load failed", zap.Error(err))
		} else if got != nil {
			roles = got
		}
	}
	s.mu.Lock()
	s.roles = roles
	s.mu.Unlock()
	return roles
}

// Roles returns the last loaded roles.
func (s *OrganizationService) Roles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.roles))
	copy(out, s.roles)
	return out
}

// DefaultRole is the role preselected for a new invitation.
func (s *OrganizationService) DefaultRole() string {
	if roles := s.Roles(); len(roles) > 0 {
		return roles[0]
	}
	return DefaultInviteRole
}

// RefreshAll re-resolves the session, then reloads every list of the
// overview concurrently. Each reload is independent.
func (s *OrganizationService) RefreshAll(ctx context.Context) {
	s.session.Refresh(ctx)

	var wg sync.WaitGroup
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}
	run(func() { s.Load(ctx) })
	run(func() { s.LoadRoles(ctx) })
	if s.courses != nil {
		run(func() { _ = s.courses.Load(ctx) })
	}
	if s.members != nil {
		run(func() { _ = s.members.Load(ctx) })
	}
	if s.invitations != nil {
		run(func() { _ = s.invitations.LoadMine(ctx) })
		run(func() { _ = s.invitations.LoadOrg(ctx) })
	}
	wg.Wait()
}

// Leave removes the user from the organization after confirmation and
// refreshes everything.
func (s *OrganizationService) Leave(ctx context.Context) (bool, error) {
	ok, err := s.confirm.Confirm(ctx, notify.ConfirmRequest{
		Title:       "Leave Organization",
		Message:     "Are you sure you want to leave this organization? You will become a guest again.",
		ConfirmText: "Leave",
		CancelText:  "Cancel",
		Danger:      true,
	})
	if err != nil {
		s.toasts.Error(appErrors.Message(err, "Failed to leave organization."))
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := s.membership.Leave(ctx); err != nil {
		s.toasts.Error(appErrors.Message(err, "Failed to leave organization."))
		return false, err
	}
	s.toasts.Success("You left the organization.")

	s.mu.Lock()
	s.org = nil
	s.mu.Unlock()
	if s.courses != nil {
		s.courses.Reset()
	}
	if s.members != nil {
		s.members.Reset()
	}
	s.RefreshAll(ctx)
	return true, nil
}
