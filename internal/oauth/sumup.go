package oauth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tapid-connect/config"
)

const (
	sumUpBaseURL = "https://api.sumup.com"
	sumUpScope   = "payments transactions.history user.profile_readonly"
)

// SumUp implements Provider for SumUp.
type SumUp struct {
	cfg    config.ProviderConfig
	client *http.Client
	now    func() time.Time
}

func NewSumUp(cfg config.ProviderConfig, client *http.Client) *SumUp {
	if cfg.BaseURL == "" {
		cfg.BaseURL = sumUpBaseURL
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = cfg.BaseURL + "/authorize"
	}
	if cfg.Scope == "" {
		cfg.Scope = sumUpScope
	}
	return &SumUp{cfg: cfg, client: client, now: time.Now}
}

func (p *SumUp) AuthURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", p.cfg.ClientID)
	q.Set("redirect_uri", p.cfg.RedirectURL)
	q.Set("scope", p.cfg.Scope)
	q.Set("state", state)
	return p.cfg.AuthURL + "?" + q.Encode()
}

type sumUpToken struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}

func (p *SumUp) Exchange(ctx context.Context, code string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", p.cfg.ClientID)
	form.Set("client_secret", p.cfg.ClientSecret)
	form.Set("redirect_uri", p.cfg.RedirectURL)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var raw sumUpToken
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
		Scope:        raw.Scope,
	}
	if raw.ExpiresIn > 0 {
		exp := p.now().UTC().Add(time.Duration(raw.ExpiresIn) * time.Second)
		token.ExpiresAt = &exp
	}
	return token, nil
}

type sumUpProfile struct {
	MerchantCode string `json:"merchant_code"`
	CompanyName  string `json:"company_name"`
}

func (p *SumUp) Merchant(ctx context.Context, accessToken string) (*Merchant, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/v0.1/me/merchant-profile", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var profile sumUpProfile
	if err := doJSON(p.client, req, &profile); err != nil {
		return nil, err
	}
	return &Merchant{Code: profile.MerchantCode, Name: profile.CompanyName}, nil
}
