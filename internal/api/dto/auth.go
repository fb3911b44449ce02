package dto

// Data Transfer Objects for the auth exchange

// RegisterRequest: step one of the exchange, email only. Presence is
// validated by hand in the handler so a missing email yields a bare 400
// instead of a binding error body.
type RegisterRequest struct {
	Email string `json:"email"`
}

// RegisterResponse echoes the address the code was sent to.
type RegisterResponse struct {
	Email string `json:"email"`
}

// TokenRequest: step two, exchanges (email, confirmation_code) for a token.
type TokenRequest struct {
	Email            string `json:"email"`
	ConfirmationCode string `json:"confirmation_code"`
}

// TokenResponse carries the access token; the refresh token is persisted
// server-side and returned only on explicit refresh.
type TokenResponse struct {
	Token string `json:"token"`
}

// FieldError identifies which field failed validation.
type FieldError struct {
	FieldName string `json:"field_name"`
}

// RefreshTokenRequest: payload for refreshing an access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshResponse: response payload after refreshing an access token
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
}
