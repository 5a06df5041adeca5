package rest

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/explore-with-me/services/main-service/internal/domain"
	appCtx "github.com/baechuer/explore-with-me/services/main-service/internal/pkg/context"
	"github.com/baechuer/explore-with-me/services/main-service/internal/security"
	"github.com/baechuer/explore-with-me/services/main-service/internal/transport/rest/response"
)

type AuthOptions struct {
	// If set (non-empty), enforce exact issuer match.
	ExpectedIssuer string
}

func AuthMiddleware(verifier security.AccessTokenVerifier, opt AuthOptions) func(next http.Handler) http.Handler {
	if verifier == nil {
		panic("AuthMiddleware: nil verifier")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := strings.TrimSpace(r.Header.Get("Authorization"))
			parts := strings.SplitN(h, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				unauthorized(w, r, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyAccessToken(strings.TrimSpace(parts[1]))
			if err != nil {
				unauthorized(w, r, err.Error())
				return
			}
			if opt.ExpectedIssuer != "" && claims.Issuer != opt.ExpectedIssuer {
				unauthorized(w, r, "invalid issuer")
				return
			}

			ctx := withAuth(r.Context(), AuthContext{
				UserID: claims.UserID,
				Role:   claims.Role,
			})
			ctx = appCtx.WithActor(ctx, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, reason string) {
	response.Fail(w, http.StatusUnauthorized, string(domain.CodeUnauthorized), "unauthorized",
		map[string]string{"reason": reason}, appCtx.GetRequestID(r.Context()))
}

// RequireSelf lets a request through when the token subject is the {userId}
// path parameter, or when the caller is an admin.
func RequireSelf(param string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth, ok := GetAuth(r.Context())
			if !ok {
				unauthorized(w, r, "missing identity")
				return
			}
			if auth.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}
			if chi.URLParam(r, param) != strconv.FormatInt(auth.UserID, 10) {
				response.Err(w, r, domain.ErrForbidden("token subject does not match the acting user"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth, ok := GetAuth(r.Context())
		if !ok {
			unauthorized(w, r, "missing identity")
			return
		}
		if !auth.IsAdmin() {
			response.Err(w, r, domain.ErrForbidden("admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type RateLimiter interface {
	AllowRequest(ctx context.Context, ip string, limit int, window time.Duration) (bool, error)
}

// RateLimitMiddleware is a shared fixed window per client ip.
func RateLimitMiddleware(rl RateLimiter, limit int, window time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, _ := rl.AllowRequest(r.Context(), clientIP(r), limit, window)
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				response.Fail(w, http.StatusTooManyRequests, string(domain.CodeRateLimited), "too many requests", nil,
					appCtx.GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the RemoteAddr host part. middleware.RealIP runs first when the
// service sits behind a trusted proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
		next.ServeHTTP(w, r)
	})
}
