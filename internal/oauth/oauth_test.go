package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/config"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

var testCreds = config.OAuthProvider{ClientID: "id", ClientSecret: "secret", CallbackURL: "http://localhost/cb"}

// providerServer fakes a token endpoint plus the given JSON routes. Routes
// reject calls without the issued bearer token.
func providerServer(t *testing.T, routes map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	})
	for path, body := range routes {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(body)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testClient(t *testing.T, p domain.Provider, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(p, testCreds)
	require.NoError(t, err)
	c.Config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	c.ProfileURL = srv.URL + "/profile"
	if c.EmailsURL != "" {
		c.EmailsURL = srv.URL + "/emails"
	}
	return c
}

func TestGoogleExchange(t *testing.T) {
	srv := providerServer(t, map[string]any{
		"/profile": map[string]any{"sub": "g-1", "email": "g@b.com", "name": "Gee", "picture": "https://img/g"},
	})
	c := testClient(t, domain.ProviderGoogle, srv)

	profile, err := c.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "g-1", profile.ExternalID)
	assert.Equal(t, "g@b.com", profile.Email)
	assert.Equal(t, "Gee", profile.DisplayName)
	assert.Equal(t, "https://img/g", profile.AvatarURL)
}

func TestGitHubFallsBackToPrimaryVerifiedEmail(t *testing.T) {
	srv := providerServer(t, map[string]any{
		"/profile": map[string]any{"id": 42, "login": "octo", "avatar_url": "https://img/o"},
		"/emails": []map[string]any{
			{"email": "old@b.com", "primary": false, "verified": true},
			{"email": "unverified@b.com", "primary": true, "verified": false},
			{"email": "octo@b.com", "primary": true, "verified": true},
		},
	})
	c := testClient(t, domain.ProviderGitHub, srv)

	profile, err := c.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "42", profile.ExternalID)
	assert.Equal(t, "octo@b.com", profile.Email)
	assert.Equal(t, "octo", profile.DisplayName, "login is the fallback display name")
}

func TestFacebookProfile(t *testing.T) {
	srv := providerServer(t, map[string]any{
		"/profile": map[string]any{
			"id":      "fb-1",
			"name":    "Eff Bee",
			"picture": map[string]any{"data": map[string]any{"url": "https://img/f"}},
		},
	})
	c := testClient(t, domain.ProviderFacebook, srv)

	profile, err := c.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "fb-1", profile.ExternalID)
	assert.Empty(t, profile.Email)
	assert.Equal(t, "https://img/f", profile.AvatarURL)
}

func TestExchangeFailures(t *testing.T) {
	srv := providerServer(t, map[string]any{"/profile": map[string]any{"name": "no id"}})
	c := testClient(t, domain.ProviderGoogle, srv)

	_, err := c.Exchange(context.Background(), "")
	assert.ErrorIs(t, err, ErrCodeMissing)

	_, err = c.Exchange(context.Background(), "bad-code")
	assert.Error(t, err)

	_, err = c.Exchange(context.Background(), "good-code")
	assert.ErrorContains(t, err, "profile without id")
}

func TestRegistryOnlyServesConfiguredProviders(t *testing.T) {
	r, err := FromConfig(config.Config{Google: testCreds, GitHub: config.OAuthProvider{ClientID: "only-id"}})
	require.NoError(t, err)
	assert.Equal(t, []domain.Provider{domain.ProviderGoogle}, r.Enabled())

	raw, err := r.AuthCodeURL(domain.ProviderGoogle, "state-1")
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "state-1", u.Query().Get("state"))
	assert.Equal(t, "id", u.Query().Get("client_id"))
	assert.Equal(t, "http://localhost/cb", u.Query().Get("redirect_uri"))

	_, err = r.AuthCodeURL(domain.ProviderGitHub, "s")
	assert.True(t, errors.Is(err, domain.ErrProviderNotSupported))
	_, err = r.Exchange(context.Background(), domain.ProviderFacebook, "code")
	assert.True(t, errors.Is(err, domain.ErrProviderNotSupported))
}

func TestNewStateIsRandom(t *testing.T) {
	a, err := NewState()
	require.NoError(t, err)
	b, err := NewState()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 32)
}
