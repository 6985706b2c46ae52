package oauth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"tapid-connect/config"
	"tapid-connect/internal/model"
)

var (
	ErrUnknownProvider = errors.New("unknown oauth provider")
	ErrNotConfigured   = errors.New("oauth provider is not configured")
	ErrInvalidState    = errors.New("invalid or expired oauth state")
	ErrMissingCode     = errors.New("missing authorization code")
)

// Token is the result of a code-for-token exchange.
type Token struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string
	ExpiresAt    *time.Time
}

// Merchant identifies the account that authorised the application.
type Merchant struct {
	Code string
	Name string
}

// Provider is one POS platform's OAuth flow.
type Provider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*Token, error)
	Merchant(ctx context.Context, accessToken string) (*Merchant, error)
}

// Service runs the authorisation code flow for the configured providers.
type Service struct {
	providers map[string]Provider

	mu     sync.Mutex // guards the lookup and removal of a state nonce
	states *cache.Cache
}

// NewService builds the configured providers. Providers without a client
// id are left out.
func NewService(cfg config.OAuthConfig) *Service {
	client := newHTTPClient(cfg.HTTPProxy, time.Duration(cfg.TimeoutSeconds)*time.Second)
	ttl := time.Duration(cfg.StateTTLMinutes) * time.Minute

	providers := make(map[string]Provider)
	if cfg.SumUp.ClientID != "" {
		providers["sumup"] = NewSumUp(cfg.SumUp, client)
	}
	if cfg.Square.ClientID != "" {
		providers["square"] = NewSquare(cfg.Square, client)
	}
	return NewServiceWithProviders(providers, ttl)
}

// NewServiceWithProviders is used when the providers are built elsewhere.
func NewServiceWithProviders(providers map[string]Provider, stateTTL time.Duration) *Service {
	return &Service{
		providers: providers,
		states:    cache.New(stateTTL, 2*stateTTL),
	}
}

func (s *Service) provider(name string) (Provider, error) {
	p, ok := s.providers[name]
	if !ok {
		switch name {
		case "sumup", "square":
			return nil, fmt.Errorf("%w: %s", ErrNotConfigured, name)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

// AuthorizeURL returns the provider consent page URL carrying a fresh
// single-use state nonce.
func (s *Service) AuthorizeURL(providerName string) (string, error) {
	p, err := s.provider(providerName)
	if err != nil {
		return "", err
	}
	state := uuid.NewString()
	s.states.SetDefault(state, providerName)
	return p.AuthURL(state), nil
}

// Callback validates state, exchanges code for tokens and fetches the
// merchant profile. The returned credential is ready to be stored.
func (s *Service) Callback(ctx context.Context, providerName, code, state string) (*model.OAuthCredential, error) {
	p, err := s.provider(providerName)
	if err != nil {
		return nil, err
	}

	if !s.consumeState(state, providerName) {
		return nil, ErrInvalidState
	}

	if code == "" {
		return nil, ErrMissingCode
	}

	token, err := p.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange with %s failed: %w", providerName, err)
	}

	cred := &model.OAuthCredential{
		Provider:     providerName,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Scope:        token.Scope,
		ExpiresAt:    token.ExpiresAt,
	}

	merchant, err := p.Merchant(ctx, token.AccessToken)
	if err != nil {
		// The tokens are still valid without a profile.
		log.Printf("Warning: could not fetch %s merchant profile: %v", providerName, err)
	} else {
		cred.MerchantCode = merchant.Code
		cred.MerchantName = merchant.Name
	}
	return cred, nil
}

// consumeState removes state if it was issued for providerName. Only one
// caller can consume a given nonce.
func (s *Service) consumeState(state, providerName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.states.Get(state)
	if !ok || owner.(string) != providerName {
		return false
	}
	s.states.Delete(state)
	return true
}

func newHTTPClient(proxy string, timeout time.Duration) *http.Client {
	var transport http.RoundTripper = &http.Transport{}
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			log.Printf("Warning: Invalid proxy URL %q: %v. OAuth client will not use a proxy.", proxy, err)
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}
