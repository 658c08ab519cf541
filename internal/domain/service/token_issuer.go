package service

import "github.com/golang-jwt/jwt/v5"

// Claims defines the custom claims carried by issued tokens.
// The payload is just the user's email; the service owns this shape.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer defines the interface for signing and validating bearer tokens.
// This abstracts the details of token creation from the use cases. The
// signing secret and lifetime are supplied at construction, not by callers.
type TokenIssuer interface {
	// Issue signs a token over the {email} payload.
	Issue(email string) (string, error)

	// Validate checks a token string and returns its claims.
	Validate(tokenString string) (*Claims, error)
}
