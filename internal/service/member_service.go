package service

import (
	"context"
	"strings"

	"github.com/noah-isme/scanova-console/internal/models"
	"github.com/noah-isme/scanova-console/internal/notify"
	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
)

type memberRepository interface {
	Members(ctx context.Context) ([]models.Member, error)
	RemoveMember(ctx context.Context, userID string) error
}

// MemberService lists and removes organization members. Owner only.
type MemberService struct {
	repo    memberRepository
	session identitySource
	toasts  Notifier
	list    *ListController[models.Member, struct{}]
}

// NewMemberService constructs a MemberService.
func NewMemberService(repo memberRepository, session identitySource, deps ListDeps) *MemberService {
	deps = deps.withDefaults()
	s := &MemberService{repo: repo, session: session, toasts: deps.Toasts}
	s.list = NewListController[models.Member, struct{}]("members", s.fetch, deps).
		OnLoadFailure(func(err error) string {
			if strings.Contains(strings.ToLower(appErrors.Message(err, "")), "permission") {
				return "Owner permission required to view members."
			}
			return ""
		})
	return s
}

func (s *MemberService) fetch(ctx context.Context, _ struct{}) ([]models.Member, error) {
	return s.repo.Members(ctx)
}

func (s *MemberService) ownerOnly() bool {
	user := s.session.Identity()
	return user.IsOwner() && !user.IsGuest()
}

// Load reloads members. Non-owners get an empty list without a request.
func (s *MemberService) Load(ctx context.Context) error {
	if !s.ownerOnly() {
		s.list.Reset()
		return nil
	}
	return s.list.Load(ctx)
}

// Reset empties the list locally.
func (s *MemberService) Reset() {
	s.list.Reset()
}

// Items returns the loaded members.
func (s *MemberService) Items() []models.Member {
	return s.list.Items()
}

// Remove removes a member after confirmation.
func (s *MemberService) Remove(ctx context.Context, userID string) (bool, error) {
	if !s.ownerOnly() {
		s.toasts.Error("Only owner can remove members.")
		return false, appErrors.Clone(appErrors.ErrForbidden, "Only owner can remove members.")
	}
	if me := s.session.Identity(); me != nil && me.ID == userID {
		s.toasts.Error("You cannot remove yourself.")
		return false, appErrors.Clone(appErrors.ErrValidation, "You cannot remove yourself.")
	}
	return s.list.Delete(ctx, userID, Removal{
		Confirm: notify.ConfirmRequest{
			Title:       "Remove Member",
			Message:     "Are you sure you want to remove this member from the organization?",
			ConfirmText: "Remove",
			CancelText:  "Cancel",
			Danger:      true,
		},
		SuccessMessage: "Member removed successfully.",
		FailureMessage: "Failed to remove member.",
	}, func(ctx context.Context) error {
		return s.repo.RemoveMember(ctx, userID)
	})
}

// Close stops pending work.
func (s *MemberService) Close() {
	s.list.Close()
}
