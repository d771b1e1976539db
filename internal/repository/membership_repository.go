package repository

import (
	"context"
	"net/http"
	"net/url"

	"github.com/noah-isme/scanova-console/internal/apiclient"
	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/models"
)

// MembershipRepository wraps /membership.
type MembershipRepository struct {
	api API
}

// NewMembershipRepository constructs a membership repository.
func NewMembershipRepository(api API) *MembershipRepository {
	return &MembershipRepository{api: api}
}

// Roles lists the role names an owner may invite with.
func (r *MembershipRepository) Roles(ctx context.Context) ([]string, error) {
	return list[string](ctx, r.api, "/membership/roles", "/membership/roles", nil)
}

// Members lists the organization's members.
func (r *MembershipRepository) Members(ctx context.Context) ([]models.Member, error) {
	return list[models.Member](ctx, r.api, "/membership/members", "/membership/members", nil)
}

// RemoveMember removes a user from the organization.
func (r *MembershipRepository) RemoveMember(ctx context.Context, userID string) error {
	return r.api.Do(ctx, http.MethodDelete, "/membership/members/"+url.PathEscape(userID), apiclient.RequestOptions{Route: "/membership/members/{id}"}, nil)
}

// MyInvitations lists invitations addressed to the caller.
func (r *MembershipRepository) MyInvitations(ctx context.Context) ([]models.Invitation, error) {
	return list[models.Invitation](ctx, r.api, "/membership/invitations/my", "/membership/invitations/my", nil)
}

// OrgInvitations lists invitations sent by the caller's organization.
func (r *MembershipRepository) OrgInvitations(ctx context.Context) ([]models.Invitation, error) {
	return list[models.Invitation](ctx, r.api, "/membership/invitations/org", "/membership/invitations/org", nil)
}

// Invite sends an invitation. The response body is decoded when it is an
// invitation and ignored otherwise.
func (r *MembershipRepository) Invite(ctx context.Context, req dto.InviteRequest) (*models.Invitation, error) {
	payload, err := r.api.Request(ctx, "/membership/invite", apiclient.RequestOptions{Method: http.MethodPost, Body: req})
	if err != nil {
		return nil, err
	}
	inv := &models.Invitation{}
	if _, ok := payload.Value.(map[string]interface{}); ok {
		_ = payload.Decode(inv)
	}
	return inv, nil
}

// Respond approves or rejects an invitation addressed to the caller.
func (r *MembershipRepository) Respond(ctx context.Context, id string, req dto.RespondInvitationRequest) error {
	path := "/membership/invitations/" + url.PathEscape(id) + "/respond"
	return r.api.Do(ctx, http.MethodPost, path, apiclient.RequestOptions{Body: req, Route: "/membership/invitations/{id}/respond"}, nil)
}

// Leave removes the caller from their organization.
func (r *MembershipRepository) Leave(ctx context.Context) error {
	return r.api.Do(ctx, http.MethodPost, "/membership/leave", apiclient.RequestOptions{}, nil)
}
