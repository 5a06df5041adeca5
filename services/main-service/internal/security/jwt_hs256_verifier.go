package security

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// clockSkew tolerated on exp/nbf between this service and the token issuer.
const clockSkew = 30 * time.Second

type HS256Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewHS256Verifier(secret string) *HS256Verifier {
	return &HS256Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithLeeway(clockSkew),
			jwt.WithExpirationRequired(),
		),
	}
}

type accessClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (v *HS256Verifier) VerifyAccessToken(token string) (TokenClaims, error) {
	var claims accessClaims
	parsed, err := v.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrTokenInvalid
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenClaims{}, ErrTokenExpired
		}
		return TokenClaims{}, ErrTokenInvalid
	}
	if !parsed.Valid {
		return TokenClaims{}, ErrTokenInvalid
	}

	raw := strings.TrimSpace(claims.UserID)
	if raw == "" {
		raw = strings.TrimSpace(claims.Subject)
	}
	uid, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || uid <= 0 {
		return TokenClaims{}, ErrTokenSubject
	}

	out := TokenClaims{
		UserID: uid,
		Role:   ParseRole(claims.Role),
		Issuer: claims.Issuer,
	}
	if claims.ExpiresAt != nil {
		out.Exp = claims.ExpiresAt.Time
	}
	return out, nil
}
