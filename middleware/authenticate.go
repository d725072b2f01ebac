package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	campusAuth "github.com/MrEthical07/campusAuth"
	"github.com/rs/zerolog"
)

// Resolver turns a bearer token into a principal. [campusAuth.Engine]
// implements it.
type Resolver interface {
	ResolvePrincipal(ctx context.Context, token string) (*campusAuth.Principal, error)
	Logger() zerolog.Logger
}

// Authenticate binds the principal named by the request's bearer token to
// the request context. It never rejects: a missing or bad token leaves the
// request anonymous and the route guard decides.
func Authenticate(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := campusAuth.WithClientIP(r.Context(), remoteIP(r.RemoteAddr))
			if resolver == nil {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			p, ok := ResolveRequest(ctx, resolver, r.Header.Get("Authorization"), r.URL.Path)
			if ok {
				ctx = campusAuth.WithPrincipal(ctx, p)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ResolveRequest resolves an Authorization header value. Failures are
// logged with their kind and path; the token itself is never logged.
func ResolveRequest(ctx context.Context, resolver Resolver, header, path string) (*campusAuth.Principal, bool) {
	logger := resolver.Logger()

	token, ok := BearerToken(header)
	if !ok {
		logger.Debug().Str("path", path).Msg("request without bearer token")
		return nil, false
	}

	p, err := resolver.ResolvePrincipal(ctx, token)
	if err != nil {
		logger.Warn().
			Str("kind", campusAuth.TokenFailureKind(err)).
			Str("path", path).
			Msg("bearer token rejected")
		return nil, false
	}
	return p, true
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func BearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}

func remoteIP(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
