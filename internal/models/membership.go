package models

import "strings"

// Invitation statuses.
const (
	InvitationPending  = "pending"
	InvitationApproved = "approved"
	InvitationRejected = "rejected"
)

// Member is a user belonging to the caller's organization.
type Member struct {
	ID       string `json:"id"`
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	RoleName string `json:"role_name,omitempty"`
}

// EntityID implements Entity.
func (m Member) EntityID() string { return m.ID }

// Invitation is a membership request, either received (my) or sent (org).
type Invitation struct {
	ID             string `json:"id,omitempty"`
	RequestID      string `json:"request_id,omitempty"`
	RoleName       string `json:"role_name,omitempty"`
	Role           string `json:"role,omitempty"`
	OrgName        string `json:"org_name,omitempty"`
	Message        string `json:"message,omitempty"`
	Status         string `json:"status,omitempty"`
	UserIdentifier string `json:"user_identifier,omitempty"`
	UserPhone      string `json:"user_phone,omitempty"`
	UserEmail      string `json:"user_email,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// EntityID implements Entity; older backends only send request_id.
func (i Invitation) EntityID() string {
	if i.ID != "" {
		return i.ID
	}
	return i.RequestID
}

// RoleLabel returns the invited role under either field name.
func (i Invitation) RoleLabel() string {
	if i.RoleName != "" {
		return i.RoleName
	}
	return i.Role
}

// Recipient returns whichever identifier the backend supplied.
func (i Invitation) Recipient() string {
	for _, v := range []string{i.UserIdentifier, i.UserPhone, i.UserEmail} {
		if v != "" {
			return v
		}
	}
	return ""
}

// IsPending treats a missing status as pending.
func (i Invitation) IsPending() bool {
	status := strings.ToLower(strings.TrimSpace(i.Status))
	return status == "" || status == InvitationPending
}
