// Package auth resolves the caller of an HTTP request to a models.User.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/interview-service/internal/models"
)

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// IdentityProvider turns a request credential into a user.
type IdentityProvider interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// CredentialExtractor is implemented by providers that read something other
// than a bearer token from the request.
type CredentialExtractor interface {
	Credential(r *http.Request) string
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func credential(provider IdentityProvider, r *http.Request) string {
	if ex, ok := provider.(CredentialExtractor); ok {
		return ex.Credential(r)
	}
	return BearerToken(r)
}
