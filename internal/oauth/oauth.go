package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/config"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/dto"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL   = "https://www.googleapis.com/oauth2/v3/userinfo"
	githubUserURL       = "https://api.github.com/user"
	githubEmailsURL     = "https://api.github.com/user/emails"
	facebookMeURL       = "https://graph.facebook.com/me?fields=id,name,email,picture.type(large)"
	maxProfileBodyBytes = 1 << 20
	stateBytes          = 24
)

var ErrCodeMissing = errors.New("authorization code missing")

// Client drives the authorization-code flow for one provider and maps its
// userinfo payload onto dto.SocialProfile.
type Client struct {
	Provider   domain.Provider
	Config     *oauth2.Config
	ProfileURL string
	// EmailsURL is only used by GitHub, whose profile omits private emails.
	EmailsURL string
}

func NewClient(p domain.Provider, creds config.OAuthProvider) (*Client, error) {
	c := &Client{
		Provider: p,
		Config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.CallbackURL,
		},
	}
	switch p {
	case domain.ProviderGoogle:
		c.Config.Endpoint = google.Endpoint
		c.Config.Scopes = []string{"openid", "email", "profile"}
		c.ProfileURL = googleUserInfoURL
	case domain.ProviderGitHub:
		c.Config.Endpoint = github.Endpoint
		c.Config.Scopes = []string{"read:user", "user:email"}
		c.ProfileURL = githubUserURL
		c.EmailsURL = githubEmailsURL
	case domain.ProviderFacebook:
		c.Config.Endpoint = facebook.Endpoint
		c.Config.Scopes = []string{"email", "public_profile"}
		c.ProfileURL = facebookMeURL
	default:
		return nil, domain.ErrProviderNotSupported
	}
	return c, nil
}

func (c *Client) AuthCodeURL(state string) string {
	return c.Config.AuthCodeURL(state)
}

// Exchange trades code for a token and fetches the caller's profile with it.
func (c *Client) Exchange(ctx context.Context, code string) (dto.SocialProfile, error) {
	if strings.TrimSpace(code) == "" {
		return dto.SocialProfile{}, ErrCodeMissing
	}
	tok, err := c.Config.Exchange(ctx, code)
	if err != nil {
		return dto.SocialProfile{}, fmt.Errorf("%s: exchange code: %w", c.Provider, err)
	}
	httpClient := c.Config.Client(ctx, tok)

	var profile dto.SocialProfile
	switch c.Provider {
	case domain.ProviderGoogle:
		profile, err = c.googleProfile(ctx, httpClient)
	case domain.ProviderGitHub:
		profile, err = c.githubProfile(ctx, httpClient)
	case domain.ProviderFacebook:
		profile, err = c.facebookProfile(ctx, httpClient)
	default:
		err = domain.ErrProviderNotSupported
	}
	if err != nil {
		return dto.SocialProfile{}, fmt.Errorf("%s: fetch profile: %w", c.Provider, err)
	}
	if profile.ExternalID == "" {
		return dto.SocialProfile{}, fmt.Errorf("%s: profile without id", c.Provider)
	}
	return profile, nil
}

func (c *Client) googleProfile(ctx context.Context, hc *http.Client) (dto.SocialProfile, error) {
	var body struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := getJSON(ctx, hc, c.ProfileURL, &body); err != nil {
		return dto.SocialProfile{}, err
	}
	return dto.SocialProfile{
		ExternalID:  body.Sub,
		Email:       body.Email,
		DisplayName: body.Name,
		AvatarURL:   body.Picture,
	}, nil
}

func (c *Client) githubProfile(ctx context.Context, hc *http.Client) (dto.SocialProfile, error) {
	var body struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(ctx, hc, c.ProfileURL, &body); err != nil {
		return dto.SocialProfile{}, err
	}
	p := dto.SocialProfile{
		Email:       body.Email,
		DisplayName: body.Name,
		AvatarURL:   body.AvatarURL,
	}
	if body.ID != 0 {
		p.ExternalID = strconv.FormatInt(body.ID, 10)
	}
	if p.DisplayName == "" {
		p.DisplayName = body.Login
	}
	if p.Email == "" && c.EmailsURL != "" {
		email, err := c.githubPrimaryEmail(ctx, hc)
		if err != nil {
			return dto.SocialProfile{}, err
		}
		p.Email = email
	}
	return p, nil
}

func (c *Client) githubPrimaryEmail(ctx context.Context, hc *http.Client) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(ctx, hc, c.EmailsURL, &emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", nil
}

func (c *Client) facebookProfile(ctx context.Context, hc *http.Client) (dto.SocialProfile, error) {
	var body struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := getJSON(ctx, hc, c.ProfileURL, &body); err != nil {
		return dto.SocialProfile{}, err
	}
	return dto.SocialProfile{
		ExternalID:  body.ID,
		Email:       body.Email,
		DisplayName: body.Name,
		AvatarURL:   body.Picture.Data.URL,
	}, nil
}

func getJSON(ctx context.Context, hc *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(io.LimitReader(resp.Body, maxProfileBodyBytes)).Decode(out)
}

// NewState returns an unguessable value for the state parameter.
func NewState() (string, error) {
	buf := make([]byte, stateBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
