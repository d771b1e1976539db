package dto

// Invitation responses.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// InviteRequest is the body of POST /membership/invite.
type InviteRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	RoleName   string `json:"role_name" validate:"required"`
	Message    string `json:"message"`
}

// RespondInvitationRequest is the body of POST /membership/invitations/{id}/respond.
type RespondInvitationRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
}
