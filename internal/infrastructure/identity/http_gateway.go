package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/crediya/loans/internal/domain/customer"
	"github.com/crediya/loans/internal/domain/shared"
	"github.com/crediya/loans/internal/domain/shared/valueobject"
	"github.com/crediya/loans/internal/infrastructure/auth"
	"github.com/crediya/loans/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	existsPath = "/api/v1/customers/exists"
	detailPath = "/api/v1/customers/email/"
)

// HTTPGateway resolves applicants against the identity service over HTTP.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPGateway creates a new HTTPGateway
func NewHTTPGateway(cfg config.IdentityConfig, logger *zap.Logger) *HTTPGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPGateway{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger.Named("identity-gateway"),
	}
}

// ExistsByEmail reports whether an applicant is registered. Any transport
// or server failure degrades to false so a flaky identity service reads as
// an unknown applicant instead of a 500.
func (g *HTTPGateway) ExistsByEmail(ctx context.Context, email valueobject.Email) (bool, error) {
	endpoint := g.baseURL + existsPath + "?email=" + url.QueryEscape(email.Address())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("identity exists check failed", zap.Error(err))
		return false, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn("identity exists check failed", zap.Int("status", resp.StatusCode))
		return false, nil
	}

	var exists bool
	if err := json.NewDecoder(resp.Body).Decode(&exists); err != nil {
		g.logger.Warn("identity exists check returned a bad body", zap.Error(err))
		return false, nil
	}
	return exists, nil
}

// FindByEmail fetches the applicant snapshot, forwarding the caller's
// bearer token. A 404 maps to CUSTOMER_NOT_FOUND.
func (g *HTTPGateway) FindByEmail(ctx context.Context, email valueobject.Email) (*customer.UserData, error) {
	endpoint := g.baseURL + detailPath + url.PathEscape(email.Address())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if token, ok := auth.TokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, shared.ErrCustomerNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}

	var user customer.UserData
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decoding identity response: %w", err)
	}
	if user.Email.IsZero() {
		user.Email = email
	}
	return &user, nil
}

// Ensure HTTPGateway implements customer.Gateway
var _ customer.Gateway = (*HTTPGateway)(nil)
