package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/interview-service/internal/config"
	"github.com/SAP-F-2025/interview-service/internal/models"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
)

type tokenParser interface {
	ParseJwtToken(token string) (*casdoorsdk.Claims, error)
}

// CasdoorProvider validates Casdoor-issued JWTs against the application
// certificate.
type CasdoorProvider struct {
	parser tokenParser
	logger *slog.Logger
}

func NewCasdoorProvider(cfg config.AuthConfig, logger *slog.Logger) *CasdoorProvider {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Certificate,
		cfg.OrganizationName,
		cfg.ApplicationName,
	)
	return newCasdoorProvider(client, logger)
}

func newCasdoorProvider(parser tokenParser, logger *slog.Logger) *CasdoorProvider {
	return &CasdoorProvider{parser: parser, logger: logger}
}

func (p *CasdoorProvider) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrMissingCredentials
	}

	claims, err := p.parser.ParseJwtToken(token)
	if err != nil {
		p.logger.DebugContext(ctx, "Rejected token", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return userFromClaims(claims)
}

func userFromClaims(claims *casdoorsdk.Claims) (*models.User, error) {
	u := claims.User

	id := u.Id
	if id == "" && u.Name != "" {
		id = u.Owner + "/" + u.Name
	}
	if id == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrInvalidToken)
	}

	name := u.DisplayName
	if name == "" {
		name = u.Name
	}

	role := models.RoleUser
	if u.IsAdmin {
		role = models.RoleAdmin
	}

	return &models.User{ID: id, Name: name, Email: u.Email, Role: role}, nil
}
