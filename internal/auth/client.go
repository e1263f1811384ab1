package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ProviderMetadata represents the subset of the OpenID Connect discovery
// document the gateway needs. It is fetched once at process start.
type ProviderMetadata struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JWKSURI               string `json:"jwks_uri"`
}

// Token is the token set returned by the provider's token endpoint
type Token struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token,omitempty"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
	Scope       string `json:"scope,omitempty"`
}

// Userinfo holds the identity claims read from the provider's userinfo
// endpoint after a successful code exchange.
type Userinfo struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// Discover fetches and parses the OpenID Connect discovery document from the
// given issuer URL. Works with any compliant provider (Auth0, Keycloak, Okta).
func Discover(issuerURL string, client *http.Client) (*ProviderMetadata, error) {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	discoveryURL := strings.TrimRight(issuerURL, "/") + "/.well-known/openid-configuration"

	resp, err := client.Get(discoveryURL)
	if err != nil {
		return nil, fmt.Errorf("fetching OIDC discovery document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OIDC discovery endpoint returned status %d", resp.StatusCode)
	}

	var meta ProviderMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("decoding OIDC discovery document: %w", err)
	}

	if meta.AuthorizationEndpoint == "" || meta.TokenEndpoint == "" {
		return nil, fmt.Errorf("OIDC discovery document missing endpoints")
	}

	return &meta, nil
}

// Config holds the provider credentials for a Client
type Config struct {
	Domain       string
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Client brokers the authorization-code flow against one OpenID Connect
// provider. It is constructed once at startup and injected into the auth
// handler; there is no package-level client state.
type Client struct {
	cfg  Config
	meta *ProviderMetadata
	http *http.Client
}

// NewClient discovers the provider named by cfg.Domain and returns a client
// bound to it
func NewClient(cfg Config) (*Client, error) {
	hc := &http.Client{Timeout: 10 * time.Second}
	meta, err := Discover("https://"+cfg.Domain, hc)
	if err != nil {
		return nil, err
	}
	return &Client{cfg: cfg, meta: meta, http: hc}, nil
}

// NewClientWithMetadata returns a client bound to already-known provider
// metadata, skipping discovery. Used by tests.
func NewClientWithMetadata(cfg Config, meta *ProviderMetadata) *Client {
	return &Client{
		cfg:  cfg,
		meta: meta,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthCodeURL builds the authorization endpoint redirect target for the
// given state nonce
func (c *Client) AuthCodeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.cfg.ClientID)
	q.Set("redirect_uri", c.cfg.CallbackURL)
	q.Set("scope", "openid profile email")
	q.Set("state", state)
	return c.meta.AuthorizationEndpoint + "?" + q.Encode()
}

// Exchange trades an authorization code for a token set at the provider's
// token endpoint
func (c *Client) Exchange(ctx context.Context, code string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", c.cfg.CallbackURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.meta.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}
	return &token, nil
}

// Userinfo fetches the identity claims for an access token
func (c *Client) Userinfo(ctx context.Context, accessToken string) (*Userinfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.meta.UserinfoEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var info Userinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding userinfo response: %w", err)
	}
	return &info, nil
}

// LogoutURL builds the provider's logout URL with a post-logout return target
func (c *Client) LogoutURL(returnTo string) string {
	q := url.Values{}
	q.Set("returnTo", returnTo)
	q.Set("client_id", c.cfg.ClientID)
	return "https://" + c.cfg.Domain + "/v2/logout?" + q.Encode()
}
