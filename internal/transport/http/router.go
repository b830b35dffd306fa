package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/dto"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/netutil"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/observability/middleware"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OAuthProviders is the part of oauth.Registry the handlers need.
type OAuthProviders interface {
	AuthCodeURL(p domain.Provider, state string) (string, error)
	Exchange(ctx context.Context, p domain.Provider, code string) (dto.SocialProfile, error)
}

type Deps struct {
	Auth      service.AuthService
	Directory service.DirectoryService
	Tokens    service.TokenService
	OAuth     OAuthProviders

	RateLimit      RateLimit
	TrustProxy     bool
	AllowedOrigins []string
	// SecureCookies marks the OAuth state cookie Secure; set behind TLS.
	SecureCookies bool
	// Ready backs /healthz; nil means always ready.
	Ready func(ctx context.Context) error
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithRequestAndTrace)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.WithMetrics)

	r.Get("/healthz", d.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: dto.ErrorBody{Code: "NOT_FOUND", Message: "Route not found."}})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, dto.ErrorResponse{Error: dto.ErrorBody{Code: "METHOD_NOT_ALLOWED", Message: "Method not allowed."}})
	})

	bearer := RequireBearer(d.Tokens)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", d.signup)
		r.With(d.limitByIP("login")).Post("/login", d.login)
		r.With(d.limitByIP("forgot_password")).Post("/forgot-password", d.forgotPassword)
		r.With(d.limitByIP("reset_password")).Post("/reset-password", d.resetPassword)
		r.Get("/activate/{token}", d.activate)
		r.Post("/send-activation-email", d.sendActivationEmail)

		r.Group(func(pr chi.Router) {
			pr.Use(bearer)
			pr.Post("/change-password", d.changePassword)
			pr.Get("/me", d.me)
		})

		r.Get("/"+providerParam, d.oauthStart)
		r.Get("/"+providerParam+"/callback", d.oauthCallback)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(bearer)
		pr.Get("/users", d.listUsers)
		pr.Get("/users/{id}", d.getUser)
		pr.Get("/contacts", d.listContacts)
		pr.Get("/contacts/{userId}", d.getContact)
	})

	return r
}

// providerParam only matches known provider names so other /auth paths
// fall through to 404/405.
var providerParam = func() string {
	names := make([]string, len(domain.Providers))
	for i, p := range domain.Providers {
		names[i] = string(p)
	}
	return "{provider:" + strings.Join(names, "|") + "}"
}()

func (d Deps) healthz(w http.ResponseWriter, r *http.Request) {
	if d.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := d.Ready(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (d Deps) clientIP(r *http.Request) string {
	return netutil.ClientIP(r, d.TrustProxy)
}
