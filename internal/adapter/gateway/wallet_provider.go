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

// addressFormats maps chain families to the provider's account formats.
var addressFormats = map[domain.ChainKind]string{
	domain.ChainEVM:      "ADDRESS_FORMAT_ETHEREUM",
	domain.ChainSolana:   "ADDRESS_FORMAT_SOLANA",
	domain.ChainMovement: "ADDRESS_FORMAT_APTOS",
}

var formatChains = func() map[string]domain.ChainKind {
	m := make(map[string]domain.ChainKind, len(addressFormats))
	for chain, format := range addressFormats {
		m[format] = chain
	}
	return m
}()

// ProviderGateway talks to the wallet-auth provider's wallet surface.
// Implements domain.WalletProvider.
type ProviderGateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewProviderGateway creates a provider gateway.
func NewProviderGateway(baseURL, apiKey string, timeout time.Duration) *ProviderGateway {
	return &ProviderGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type providerAccount struct {
	Address       string `json:"address"`
	AddressFormat string `json:"addressFormat"`
}

type providerWallet struct {
	WalletID   string            `json:"walletId"`
	WalletName string            `json:"walletName"`
	Accounts   []providerAccount `json:"accounts"`
}

type providerError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (g *ProviderGateway) do(ctx context.Context, method, path string, payload, out any) error {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("X-Api-Key", g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var perr providerError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&perr); decodeErr == nil && perr.Code == "CREATE_WALLET_ERROR" {
			// The provider tags creation-specific failures; downstream
			// treats these as non-fatal.
			return fmt.Errorf("%w: %s", domain.ErrWalletCreation, perr.Message)
		}
		return fmt.Errorf("%w: provider returned status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
		}
	}
	return nil
}

// ListWallets returns the wallets currently visible for the session.
func (g *ProviderGateway) ListWallets(ctx context.Context) ([]domain.Wallet, error) {
	var body struct {
		Wallets []providerWallet `json:"wallets"`
	}
	if err := g.do(ctx, http.MethodGet, "/v1/wallets", nil, &body); err != nil {
		return nil, err
	}

	wallets := make([]domain.Wallet, 0, len(body.Wallets))
	for _, w := range body.Wallets {
		wallets = append(wallets, domain.Wallet{
			ID:       w.WalletID,
			Name:     w.WalletName,
			Accounts: accountsToAddresses(w.Accounts),
		})
	}
	return wallets, nil
}

// CreateWallet requests a wallet with one account per chain family.
func (g *ProviderGateway) CreateWallet(ctx context.Context, name string, chains []domain.ChainKind) error {
	formats := make([]string, 0, len(chains))
	for _, chain := range chains {
		if format, ok := addressFormats[chain]; ok {
			formats = append(formats, format)
		}
	}
	payload := map[string]any{
		"walletName": name,
		"accounts":   formats,
	}
	return g.do(ctx, http.MethodPost, "/v1/wallets", payload, nil)
}

// WalletAccounts resolves the addresses held by one wallet.
func (g *ProviderGateway) WalletAccounts(ctx context.Context, walletID string) ([]domain.ChainAddress, error) {
	var body providerWallet
	if err := g.do(ctx, http.MethodGet, "/v1/wallets/"+walletID, nil, &body); err != nil {
		return nil, err
	}
	return accountsToAddresses(body.Accounts), nil
}

func accountsToAddresses(accounts []providerAccount) []domain.ChainAddress {
	var addrs []domain.ChainAddress
	for _, account := range accounts {
		chain, known := formatChains[account.AddressFormat]
		if !known || account.Address == "" {
			continue
		}
		addrs = append(addrs, domain.ChainAddress{Chain: chain, Address: account.Address})
	}
	return addrs
}

var _ domain.WalletProvider = (*ProviderGateway)(nil)
