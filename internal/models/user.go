package models

import "strings"

// Role names understood by the console.
const (
	RoleOwner        = "owner"
	RoleGuest        = "guest"
	RoleOrgAdmin     = "organization_admin"
	RoleScanOperator = "scan_operator"
)

// User is the identity returned by GET /auth/me.
type User struct {
	ID       string `json:"id"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	RoleName string `json:"role_name,omitempty"`
	OrgID    string `json:"org_id,omitempty"`
}

func (u *User) role() string {
	if u == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(u.RoleName))
}

// IsOwner reports whether the user owns their organization.
func (u *User) IsOwner() bool {
	return u.role() == RoleOwner
}

// IsGuest reports whether the user belongs to no organization.
func (u *User) IsGuest() bool {
	return u == nil || u.OrgID == "" || u.role() == RoleGuest
}

// DisplayName prefers the full name, then phone, then email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	for _, v := range []string{u.FullName, u.Phone, u.Email} {
		if v != "" {
			return v
		}
	}
	return u.ID
}
