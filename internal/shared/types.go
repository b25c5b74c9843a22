package shared

// shared types across the application

// AuthClaims carries the identity extracted from a validated access token.
type AuthClaims struct {
	UserID   string `json:"user_id"`  // user identifier (UUID)
	Username string `json:"username"` // username
}
