package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/scanova-console/internal/apiclient"
	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/models"
	"github.com/noah-isme/scanova-console/internal/notify"
	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
)

type invitationRepository interface {
	MyInvitations(ctx context.Context) ([]models.Invitation, error)
	OrgInvitations(ctx context.Context) ([]models.Invitation, error)
	Invite(ctx context.Context, req dto.InviteRequest) (*models.Invitation, error)
	Respond(ctx context.Context, id string, req dto.RespondInvitationRequest) error
}

var inviteMessages = map[string]string{
	"RoleName":   "Role is required.",
	"Identifier": "Phone or Email is required.",
}

// DefaultInviteRole is preselected when the role list is empty.
const DefaultInviteRole = models.RoleScanOperator

// InvitationService tracks invitations received by the user and, for
// owners, those sent by the organization.
type InvitationService struct {
	repo      invitationRepository
	session   identitySource
	toasts    Notifier
	confirm   Confirmation
	validator *validator.Validate
	logger    *zap.Logger

	mine *ListController[models.Invitation, struct{}]
	org  *ListController[models.Invitation, struct{}]

	onResponded func(ctx context.Context)
}

// Only members of no organization may join one.
var errAcceptNeedsGuest = appErrors.Clone(appErrors.ErrForbidden, "Leave your current organization before accepting an invitation.")

// NewInvitationService constructs an InvitationService.
func NewInvitationService(repo invitationRepository, session identitySource, deps ListDeps) *InvitationService {
	deps = deps.withDefaults()
	s := &InvitationService{
		repo:      repo,
		session:   session,
		toasts:    deps.Toasts,
		confirm:   deps.Confirm,
		validator: deps.Validator,
		logger:    deps.Logger,
	}
	silent := func(error) string { return "" }
	s.mine = NewListController[models.Invitation, struct{}]("invitations", func(ctx context.Context, _ struct{}) ([]models.Invitation, error) {
		return repo.MyInvitations(ctx)
	}, deps).OnLoadFailure(silent)
	s.org = NewListController[models.Invitation, struct{}]("organization invitations", func(ctx context.Context, _ struct{}) ([]models.Invitation, error) {
		return repo.OrgInvitations(ctx)
	}, deps).OnLoadFailure(silent)
	return s
}

// OnResponded registers what to reload after an invitation is answered.
func (s *InvitationService) OnResponded(fn func(ctx context.Context)) {
	s.onResponded = fn
}

func (s *InvitationService) isOwner() bool {
	user := s.session.Identity()
	return user.IsOwner() && !user.IsGuest()
}

// LoadMine reloads invitations addressed to the user.
func (s *InvitationService) LoadMine(ctx context.Context) error {
	return s.mine.Load(ctx)
}

// LoadOrg reloads invitations sent by the organization. Non-owners get an
// empty list without a request.
func (s *InvitationService) LoadOrg(ctx context.Context) error {
	if !s.isOwner() {
		s.org.Reset()
		return nil
	}
	return s.org.Load(ctx)
}

// Mine returns the invitations addressed to the user.
func (s *InvitationService) Mine() []models.Invitation {
	return s.mine.Items()
}

// Org returns the invitations sent by the organization.
func (s *InvitationService) Org() []models.Invitation {
	return s.org.Items()
}

// ResetOrg empties the organization list locally.
func (s *InvitationService) ResetOrg() {
	s.org.Reset()
}

// PendingCount counts received invitations still awaiting an answer.
func (s *InvitationService) PendingCount() int {
	return CountPending(s.mine.Items())
}

// CountPending counts pending invitations.
func CountPending(invites []models.Invitation) int {
	n := 0
	for _, inv := range invites {
		if inv.IsPending() {
			n++
		}
	}
	return n
}

// Invite sends an invitation on behalf of the organization.
func (s *InvitationService) Invite(ctx context.Context, req dto.InviteRequest) (*models.Invitation, error) {
	if !s.isOwner() {
		s.toasts.Error("Only owner can invite users.")
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Only owner can invite users.")
	}
	req.RoleName = strings.TrimSpace(req.RoleName)
	req.Identifier = strings.TrimSpace(req.Identifier)
	req.Message = strings.TrimSpace(req.Message)
	if err := s.validator.Struct(req); err != nil {
		msg := validationMessage(err, inviteMessages)
		s.toasts.Error(msg)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msg)
	}

	inv, err := s.repo.Invite(ctx, req)
	if err != nil {
		var apiErr *appErrors.Error
		if apiclient.IsStatus(err, http.StatusUnprocessableEntity) && errors.As(err, &apiErr) {
			s.logger.Warn("invite rejected", zap.Any("detail", apiErr.Data))
		}
		s.toasts.Error(appErrors.Message(err, "Failed to send invitation."))
		return nil, err
	}
	s.toasts.Success("Invitation sent successfully!")
	if err := s.LoadOrg(ctx); err != nil {
		s.logger.Debug("reload organization invitations failed", zap.Error(err))
	}
	return inv, nil
}

// Respond approves or rejects a received invitation after confirmation.
// A declined confirmation sends nothing.
func (s *InvitationService) Respond(ctx context.Context, id, action string) (bool, error) {
	req := dto.RespondInvitationRequest{Action: strings.ToLower(strings.TrimSpace(action))}
	if err := s.validator.Struct(req); err != nil {
		msg := validationMessage(err, nil)
		s.toasts.Error(msg)
		return false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msg)
	}

	approve := req.Action == dto.ActionApprove
	if approve && !s.session.Identity().IsGuest() {
		s.toasts.Error(errAcceptNeedsGuest.Message)
		return false, errAcceptNeedsGuest
	}
	confirm := notify.ConfirmRequest{
		Title:       "Reject Invitation",
		Message:     "Are you sure you want to reject this invitation?",
		ConfirmText: "Reject",
		CancelText:  "Cancel",
		Danger:      true,
	}
	if approve {
		confirm = notify.ConfirmRequest{
			Title:       "Accept Invitation",
			Message:     "Are you sure you want to accept this invitation?",
			ConfirmText: "Accept",
			CancelText:  "Cancel",
		}
	}

	ok, err := s.confirm.Confirm(ctx, confirm)
	if err != nil {
		s.toasts.Error(appErrors.Message(err, "Failed to respond to invitation."))
		return false, err
	}
	if !ok {
		return false, nil
	}

	if err := s.repo.Respond(ctx, id, req); err != nil {
		s.toasts.Error(appErrors.Message(err, "Failed to respond to invitation."))
		return false, err
	}
	if approve {
		s.toasts.Success("Invitation accepted!")
	} else {
		s.toasts.Success("Invitation rejected!")
	}

	if s.onResponded != nil {
		s.onResponded(ctx)
	} else if err := s.LoadMine(ctx); err != nil {
		s.logger.Debug("reload invitations failed", zap.Error(err))
	}
	return true, nil
}

// Close stops pending work.
func (s *InvitationService) Close() {
	s.mine.Close()
	s.org.Close()
}
