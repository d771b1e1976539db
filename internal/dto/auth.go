package dto

// LoginRequest holds the phone/password credentials for POST /auth/login.
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued credential pair.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
}

// SignupRequest registers a new account via POST /auth/signup.
type SignupRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password" validate:"required,min=6"`
}
