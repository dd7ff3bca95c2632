package dto

// RegisterRequest creates an account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest exchanges credentials for a token pair.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token for a fresh pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse carries a session token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// MeResponse echoes the caller identity.
type MeResponse struct {
	ID               uint    `json:"id"`
	Email            string  `json:"email"`
	StripeCustomerID *string `json:"stripe_customer_id,omitempty"`
}
