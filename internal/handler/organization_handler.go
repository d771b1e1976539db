package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/noah-isme/scanova-console/internal/dto"
	"github.com/noah-isme/scanova-console/internal/models"
	"github.com/noah-isme/scanova-console/internal/service"
)

// OrganizationHandler exposes the organization overview: the org itself,
// roles, members and invitations.
type OrganizationHandler struct {
	console     *Console
	session     *service.SessionService
	org         *service.OrganizationService
	members     *service.MemberService
	invitations *service.InvitationService
}

// NewOrganizationHandler constructs an organization handler.
func NewOrganizationHandler(console *Console, session *service.SessionService, org *service.OrganizationService, members *service.MemberService, invitations *service.InvitationService) *OrganizationHandler {
	return &OrganizationHandler{console: console, session: session, org: org, members: members, invitations: invitations}
}

// Show prints the cached organization summary.
func (h *OrganizationHandler) Show(ctx context.Context, in *Input) error {
	rows := [][]string{{"organization", h.org.DisplayName()}}
	if org := h.org.Current(); org != nil {
		rows = append(rows,
			[]string{"id", org.ID},
			[]string{"description", orDash(org.Description)},
		)
	}
	user := h.session.Identity()
	role := "guest"
	if !user.IsGuest() {
		role = user.RoleName
	}
	rows = append(rows,
		[]string{"your role", orDash(role)},
		[]string{"pending invitations", strconv.Itoa(h.invitations.PendingCount())},
	)
	if !user.IsGuest() {
		rows = append(rows, []string{"members", strconv.Itoa(len(h.members.Items()))})
	}
	h.console.Table(nil, rows)
	return nil
}

// Refresh reloads the whole overview.
func (h *OrganizationHandler) Refresh(ctx context.Context, in *Input) error {
	h.org.RefreshAll(ctx)
	return h.Show(ctx, in)
}

// Leave leaves the organization after confirmation.
func (h *OrganizationHandler) Leave(ctx context.Context, in *Input) error {
	if _, err := h.org.Leave(ctx); err != nil {
		return errReported
	}
	return nil
}

// Roles prints the roles an owner can invite with.
func (h *OrganizationHandler) Roles(ctx context.Context, in *Input) error {
	roles := h.org.LoadRoles(ctx)
	if len(roles) == 0 {
		h.console.Println("No roles available. Only the owner can invite.")
		return nil
	}
	for _, role := range roles {
		h.console.Println(role)
	}
	return nil
}

// Members reloads and prints the member list.
func (h *OrganizationHandler) Members(ctx context.Context, in *Input) error {
	if err := h.members.Load(ctx); err != nil {
		return errReported
	}
	items := h.members.Items()
	if len(items) == 0 {
		h.console.Println("No members to show.")
		return nil
	}
	rows := make([][]string, 0, len(items))
	for _, m := range items {
		rows = append(rows, []string{m.ID, orDash(m.FullName), orDash(m.Phone), orDash(m.Email), orDash(m.RoleName)})
	}
	h.console.Table([]string{"ID", "NAME", "PHONE", "EMAIL", "ROLE"}, rows)
	return nil
}

// RemoveMember removes a member after confirmation.
func (h *OrganizationHandler) RemoveMember(ctx context.Context, in *Input) error {
	id := in.Arg(0)
	if id == "" {
		return &UsageError{Usage: "member remove <userId>"}
	}
	if _, err := h.members.Remove(ctx, id); err != nil {
		return errReported
	}
	return nil
}

// Invitations prints received invitations, or the organization's sent ones
// with "invites org".
func (h *OrganizationHandler) Invitations(ctx context.Context, in *Input) error {
	var items []models.Invitation
	if strings.EqualFold(in.Arg(0), "org") {
		if err := h.invitations.LoadOrg(ctx); err != nil {
			return errReported
		}
		items = h.invitations.Org()
	} else {
		if err := h.invitations.LoadMine(ctx); err != nil {
			return errReported
		}
		items = h.invitations.Mine()
	}
	if len(items) == 0 {
		h.console.Println("No invitations.")
		return nil
	}
	rows := make([][]string, 0, len(items))
	for _, inv := range items {
		rows = append(rows, []string{
			inv.EntityID(),
			orDash(inv.OrgName),
			orDash(inv.RoleLabel()),
			orDash(inv.Recipient()),
			orDash(inv.Status),
			orDash(inv.Message),
		})
	}
	h.console.Table([]string{"ID", "ORGANIZATION", "ROLE", "RECIPIENT", "STATUS", "MESSAGE"}, rows)
	return nil
}

// Invite sends an invitation. The role defaults to the first invitable role.
func (h *OrganizationHandler) Invite(ctx context.Context, in *Input) error {
	role := in.Value("role")
	if !in.Has("role") {
		role = in.Value("role_name")
	}
	if !in.Has("role") && !in.Has("role_name") {
		role = h.org.DefaultRole()
	}
	identifier := in.Value("identifier")
	if identifier == "" {
		identifier = in.Value("phone")
	}
	if identifier == "" {
		identifier = in.Value("email")
	}
	_, err := h.invitations.Invite(ctx, dto.InviteRequest{
		Identifier: identifier,
		RoleName:   role,
		Message:    in.Value("message"),
	})
	if err != nil {
		return errReported
	}
	return nil
}

// Respond answers a received invitation; action is accept or reject.
func (h *OrganizationHandler) Respond(action string) CommandFunc {
	return func(ctx context.Context, in *Input) error {
		id := in.Arg(0)
		if id == "" {
			return &UsageError{Usage: "invite " + action + " <invitationId>"}
		}
		apiAction := dto.ActionReject
		if action == "accept" {
			apiAction = dto.ActionApprove
		}
		if _, err := h.invitations.Respond(ctx, id, apiAction); err != nil {
			return errReported
		}
		return nil
	}
}
