package security

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func ParseRole(s string) Role {
	if Role(strings.ToLower(strings.TrimSpace(s))) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// TokenClaims is the identity an access token vouches for. UserID is always
// a positive user id; tokens that do not carry one fail verification.
type TokenClaims struct {
	UserID int64
	Role   Role
	Issuer string
	Exp    time.Time
}

func (c TokenClaims) IsAdmin() bool { return c.Role == RoleAdmin }
