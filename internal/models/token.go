package models

// TokenPair is the opaque credential pair issued at login. Either half may be
// empty, meaning absent.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// HasAccess reports whether an access token is stored. It is the only signal
// used to attempt identity resolution.
func (p TokenPair) HasAccess() bool {
	return p.AccessToken != ""
}

// IsEmpty reports whether neither token is present.
func (p TokenPair) IsEmpty() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}
