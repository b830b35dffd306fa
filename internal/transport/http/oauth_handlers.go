package http

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/oauth"

	"github.com/go-chi/chi/v5"
)

const (
	stateCookiePrefix = "oauth_state_"
	stateCookieTTL    = 10 * time.Minute
)

func (d Deps) provider(r *http.Request) (domain.Provider, error) {
	if d.OAuth == nil {
		return "", domain.ErrProviderNotSupported
	}
	return domain.ParseProvider(chi.URLParam(r, "provider"))
}

// oauthStart mints a state value, pins it in a short-lived cookie and
// redirects to the provider's consent page.
func (d Deps) oauthStart(w http.ResponseWriter, r *http.Request) {
	p, err := d.provider(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	state, err := oauth.NewState()
	if err != nil {
		writeError(w, r, err)
		return
	}
	target, err := d.OAuth.AuthCodeURL(p, state)
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookiePrefix + string(p),
		Value:    state,
		Path:     "/auth/" + string(p),
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   d.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, target, http.StatusFound)
}

func (d Deps) oauthCallback(w http.ResponseWriter, r *http.Request) {
	p, err := d.provider(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cookieName := stateCookiePrefix + string(p)
	cookie, err := r.Cookie(cookieName)
	state := r.URL.Query().Get("state")
	if err != nil || cookie.Value == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		writeError(w, r, domain.ErrOAuthStateMismatch)
		return
	}
	// Single use.
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Path:     "/auth/" + string(p),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   d.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	profile, err := d.OAuth.Exchange(r.Context(), p, r.URL.Query().Get("code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := d.Auth.SocialLogin(r.Context(), p, profile, d.clientIP(r), r.UserAgent())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
