package security

import "errors"

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenSubject = errors.New("token subject is not a user id")
)

type AccessTokenVerifier interface {
	VerifyAccessToken(token string) (TokenClaims, error)
}
