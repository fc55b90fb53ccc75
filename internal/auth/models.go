package auth

import "github.com/golang-jwt/jwt/v5"

type User struct {
	ID                int64  `json:"id"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	Role              string `json:"role"`
	ApprovalStatus    string `json:"approval_status"`
	Token             string `json:"token,omitempty"`
	Password          []byte `json:"-"`
	PlaintextPassword string `json:"-"`
}

type UserClaim struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`

	jwt.RegisteredClaims
}
