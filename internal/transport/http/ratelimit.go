package http

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/netutil"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/observability/metrics"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/observability/middleware"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/ratelimit"

	"github.com/go-chi/httprate"
)

type RateLimit struct {
	// Limiter is shared across instances; nil falls back to an in-process
	// window of the same size.
	Limiter ratelimit.Limiter
	Max     int
	Window  time.Duration
}

// limitByIP counts requests per client IP under name. Limiter errors let the
// request through.
func (d Deps) limitByIP(name string) func(http.Handler) http.Handler {
	rl := d.RateLimit
	if rl.Max <= 0 || rl.Window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if rl.Limiter == nil {
		return httprate.Limit(rl.Max, rl.Window,
			httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
				return name + ":" + netutil.ClientIP(r, d.TrustProxy), nil
			}),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				metrics.RateLimitedTotal.WithLabelValues(name).Inc()
				writeError(w, r, domain.ErrRateLimited)
			}),
		)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := name + ":" + netutil.ClientIP(r, d.TrustProxy)
			dec, err := rl.Limiter.Allow(r.Context(), key)
			if err != nil {
				slog.Warn("rate limiter unavailable", append(middleware.LogAttrs(r.Context()), "error", err)...)
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(dec.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))
			if !dec.Allowed {
				metrics.RateLimitedTotal.WithLabelValues(name).Inc()
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(dec.ResetIn.Seconds()))))
				writeError(w, r, domain.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
