package oauth

import (
	"context"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/config"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/dto"
)

// Registry holds the providers that have client credentials configured.
type Registry struct {
	clients map[domain.Provider]*Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[domain.Provider]*Client)}
}

// FromConfig registers every provider whose credentials are set.
func FromConfig(cfg config.Config) (*Registry, error) {
	r := NewRegistry()
	for p, creds := range map[domain.Provider]config.OAuthProvider{
		domain.ProviderGoogle:   cfg.Google,
		domain.ProviderGitHub:   cfg.GitHub,
		domain.ProviderFacebook: cfg.Facebook,
	} {
		if !creds.Enabled() {
			continue
		}
		c, err := NewClient(p, creds)
		if err != nil {
			return nil, err
		}
		r.Register(c)
	}
	return r, nil
}

func (r *Registry) Register(c *Client) { r.clients[c.Provider] = c }

func (r *Registry) Enabled() []domain.Provider {
	out := make([]domain.Provider, 0, len(r.clients))
	for _, p := range domain.Providers {
		if _, ok := r.clients[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (r *Registry) client(p domain.Provider) (*Client, error) {
	c, ok := r.clients[p]
	if !ok {
		return nil, domain.ErrProviderNotSupported
	}
	return c, nil
}

func (r *Registry) AuthCodeURL(p domain.Provider, state string) (string, error) {
	c, err := r.client(p)
	if err != nil {
		return "", err
	}
	return c.AuthCodeURL(state), nil
}

func (r *Registry) Exchange(ctx context.Context, p domain.Provider, code string) (dto.SocialProfile, error) {
	c, err := r.client(p)
	if err != nil {
		return dto.SocialProfile{}, err
	}
	return c.Exchange(ctx, code)
}
