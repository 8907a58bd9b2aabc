package models

import "github.com/golang-jwt/jwt/v5"

// APIClaims are the claims carried by the ingest API's bearer tokens.
type APIClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Sub   string `json:"sub"`
	Role  string `json:"role"`
}
