package domain

import "strings"

// Provider names an external OAuth identity provider.
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderGitHub   Provider = "github"
	ProviderFacebook Provider = "facebook"
)

var Providers = []Provider{ProviderGoogle, ProviderGitHub, ProviderFacebook}

func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderGoogle, ProviderGitHub, ProviderFacebook:
		return p, nil
	default:
		return "", ErrProviderNotSupported
	}
}

// Column is the users table column holding this provider's external id.
func (p Provider) Column() string {
	return string(p) + "_id"
}

// Trusted reports whether profiles from this provider count as email-verified.
func (p Provider) Trusted() bool { return p == ProviderGoogle }
