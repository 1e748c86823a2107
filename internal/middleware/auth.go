package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/stash/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// AddressKey is the context key for the authenticated caller address.
	AddressKey contextKey = "address"
	// RequestIDKey is the context key for the per-call request id.
	RequestIDKey contextKey = "request_id"
)

// GetAddress extracts the caller address from the context.
// Returns empty string if not found.
func GetAddress(ctx context.Context) string {
	address, _ := ctx.Value(AddressKey).(string)
	return address
}

// WithAddress returns a context carrying address as the caller.
func WithAddress(ctx context.Context, address string) context.Context {
	return context.WithValue(ctx, AddressKey, address)
}

// GetRequestID extracts the request id from the context.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// RequireAuth returns an interceptor that validates JWT tokens and requires
// authentication. The token subject becomes the caller address.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			tokenString, ok := bearerToken(authHeader)
			if !ok {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(tokenString)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithAddress(ctx, claims.Address()), req)
		}
	}
}

// OptionalAuth returns an interceptor that validates JWT tokens if present,
// but allows requests without authentication.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if tokenString, ok := bearerToken(req.Header().Get("Authorization")); ok {
				// Invalid tokens are ignored.
				if claims, err := jwtManager.Validate(tokenString); err == nil {
					ctx = WithAddress(ctx, claims.Address())
				}
			}
			return next(ctx, req)
		}
	}
}

// Authenticate applies RequireAuth to every procedure except those listed in
// public, which get OptionalAuth.
func Authenticate(jwtManager *auth.JWTManager, public ...string) connect.UnaryInterceptorFunc {
	open := make(map[string]bool, len(public))
	for _, procedure := range public {
		open[procedure] = true
	}
	required := RequireAuth(jwtManager)
	optional := OptionalAuth(jwtManager)

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		withToken := required(next)
		withoutToken := optional(next)
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if open[req.Spec().Procedure] {
				return withoutToken(ctx, req)
			}
			return withToken(ctx, req)
		}
	}
}
