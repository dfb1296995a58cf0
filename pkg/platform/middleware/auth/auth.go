// Package auth validates portal tokens: short-lived HS256 JWTs minted by the
// user portal that carry the acting user's identifier. The token is transport
// plumbing, not an identity system — it only tells this service which user a
// request is about.
package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	id "privacygate/pkg/domain"
	"privacygate/pkg/requestcontext"
)

// PortalTokenValidator verifies portal tokens against a shared signing key.
type PortalTokenValidator struct {
	key []byte
}

// NewPortalTokenValidator constructs a validator for the configured key.
func NewPortalTokenValidator(key string) *PortalTokenValidator {
	return &PortalTokenValidator{key: []byte(key)}
}

// ValidateToken parses and verifies a portal token and returns the user it
// was minted for. Only HS256 is accepted; expiry and not-before claims are
// enforced by the parser.
func (v *PortalTokenValidator) ValidateToken(tokenString string) (id.UserID, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return id.UserID{}, fmt.Errorf("parse portal token: %w", err)
	}
	if !token.Valid {
		return id.UserID{}, fmt.Errorf("portal token is invalid")
	}
	userID, err := id.ParseUserID(claims.Subject)
	if err != nil {
		return id.UserID{}, fmt.Errorf("portal token subject: %w", err)
	}
	return userID, nil
}

// RequirePortalToken rejects requests without a valid Bearer portal token and
// injects the token's user into the request context.
func RequirePortalToken(validator *PortalTokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "portal token required")
				return
			}

			userID, err := validator.ValidateToken(tokenString)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid portal token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "invalid portal token")
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithUserID(ctx, userID)))
		})
	}
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}
