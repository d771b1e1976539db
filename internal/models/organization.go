package models

// Organization is the caller's organization from GET /organizations/me.
type Organization struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OwnerID     string `json:"owner_id,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}
