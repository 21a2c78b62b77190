package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"wallet-bridge/internal/domain"
)

// BackendGateway talks to the reconciliation endpoints with bearer auth.
// Implements domain.BackendClient.
type BackendGateway struct {
	baseURL    string
	httpClient *http.Client
}

// NewBackendGateway creates a backend gateway with a tuned HTTP transport.
func NewBackendGateway(baseURL string, timeout time.Duration) *BackendGateway {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}
	return &BackendGateway{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

type meResponse struct {
	User *domain.UserProfile `json:"user"`
}

// FetchMe retrieves the backend's view of the authenticated user.
// A 401 maps to ErrUnauthorized, a 404 to ErrProfileNotFound; transport
// failures and other statuses map to ErrNetwork so a transient outage is
// never mistaken for an absent profile.
func (g *BackendGateway) FetchMe(ctx context.Context, token string) (*domain.UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, domain.ErrUnauthorized
	case http.StatusNotFound:
		return nil, domain.ErrProfileNotFound
	default:
		return nil, fmt.Errorf("%w: /auth/me returned status %d", domain.ErrNetwork, resp.StatusCode)
	}

	var body meResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	if body.User == nil {
		return nil, domain.ErrProfileNotFound
	}
	return body.User, nil
}

// RegisterWallet associates walletID with the authenticated subject.
func (g *BackendGateway) RegisterWallet(ctx context.Context, token, walletID string) (*domain.UserProfile, error) {
	payload, err := json.Marshal(map[string]string{"walletId": walletID})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRegistrationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/auth/verify", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusUnauthorized:
		return nil, domain.ErrUnauthorized
	default:
		return nil, fmt.Errorf("%w: /auth/verify returned status %d", domain.ErrRegistrationFailed, resp.StatusCode)
	}

	var body meResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRegistrationFailed, err)
	}
	return body.User, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

// RedeemReferral submits a referral code. The token is optional; an empty
// token sends the request anonymously.
func (g *BackendGateway) RedeemReferral(ctx context.Context, token, code string) (string, error) {
	var body messageResponse
	if err := g.post(ctx, "/referral/redeem", token, map[string]string{"code": code}, &body); err != nil {
		return "", err
	}
	return body.Message, nil
}

// Claim submits a card-claim authorization for the authenticated subject.
func (g *BackendGateway) Claim(ctx context.Context, token, authorization string) (string, error) {
	var body messageResponse
	if err := g.post(ctx, "/claim", token, map[string]string{"authorization": authorization}, &body); err != nil {
		return "", err
	}
	return body.Message, nil
}

type deletionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// RequestDeletion starts the account deletion workflow.
func (g *BackendGateway) RequestDeletion(ctx context.Context, token string) (status, message string, err error) {
	var body deletionResponse
	if err := g.post(ctx, "/auth/delete-request", token, struct{}{}, &body); err != nil {
		return "", "", err
	}
	return body.Status, body.Message, nil
}

// post sends an authenticated JSON request and decodes the response into
// out. A 401 maps to ErrUnauthorized, everything else non-2xx to ErrNetwork.
func (g *BackendGateway) post(ctx context.Context, path, token string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: %s returned status %d", domain.ErrNetwork, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	return nil
}

var (
	_ domain.BackendClient = (*BackendGateway)(nil)
	_ domain.AccountClient = (*BackendGateway)(nil)
)
