package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"tapid-connect/config"
)

const (
	squareBaseURL    = "https://connect.squareup.com"
	squareScope      = "MERCHANT_PROFILE_READ PAYMENTS_READ ORDERS_READ"
	squareAPIVersion = "2024-07-17"
)

// Square implements Provider for Square.
type Square struct {
	cfg    config.ProviderConfig
	client *http.Client
}

func NewSquare(cfg config.ProviderConfig, client *http.Client) *Square {
	if cfg.BaseURL == "" {
		cfg.BaseURL = squareBaseURL
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = cfg.BaseURL + "/oauth2/authorize"
	}
	if cfg.Scope == "" {
		cfg.Scope = squareScope
	}
	return &Square{cfg: cfg, client: client}
}

func (p *Square) AuthURL(state string) string {
	q := url.Values{}
	q.Set("client_id", p.cfg.ClientID)
	q.Set("scope", p.cfg.Scope)
	q.Set("session", "false")
	q.Set("state", state)
	if p.cfg.RedirectURL != "" {
		q.Set("redirect_uri", p.cfg.RedirectURL)
	}
	return p.cfg.AuthURL + "?" + q.Encode()
}

type squareTokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Code         string `json:"code"`
	GrantType    string `json:"grant_type"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
}

type squareToken struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresAt    string `json:"expires_at"`
	MerchantID   string `json:"merchant_id"`
}

func (p *Square) Exchange(ctx context.Context, code string) (*Token, error) {
	body, err := json.Marshal(squareTokenRequest{
		ClientID:     p.cfg.ClientID,
		ClientSecret: p.cfg.ClientSecret,
		Code:         code,
		GrantType:    "authorization_code",
		RedirectURI:  p.cfg.RedirectURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/oauth2/token", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Square-Version", squareAPIVersion)

	var raw squareToken
	if err := doJSON(p.client, req, &raw); err != nil {
		return nil, err
	}
	if raw.AccessToken == "" {
		return nil, fmt.Errorf("response carried no access token")
	}

	token := &Token{
		AccessToken:  raw.AccessToken,
		RefreshToken: raw.RefreshToken,
		TokenType:    raw.TokenType,
		Scope:        p.cfg.Scope,
	}
	if raw.ExpiresAt != "" {
		exp, err := time.Parse(time.RFC3339, raw.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse expires_at %q: %w", raw.ExpiresAt, err)
		}
		exp = exp.UTC()
		token.ExpiresAt = &exp
	}
	return token, nil
}

type squareMerchant struct {
	Merchant struct {
		ID           string `json:"id"`
		BusinessName string `json:"business_name"`
	} `json:"merchant"`
}

func (p *Square) Merchant(ctx context.Context, accessToken string) (*Merchant, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/v2/merchants/me", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Square-Version", squareAPIVersion)

	var m squareMerchant
	if err := doJSON(p.client, req, &m); err != nil {
		return nil, err
	}
	return &Merchant{Code: m.Merchant.ID, Name: m.Merchant.BusinessName}, nil
}
