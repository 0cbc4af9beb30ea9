package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/haguru/signup/internal/interfaces"
	"github.com/haguru/signup/internal/models/dto"
	"golang.org/x/time/rate"
)

const (
	RateLimitedTotal     = "rate_limited_total"
	RateLimitedTotalHelp = "Total number of requests rejected by the rate limiter"
	LabelRoute           = "route"

	MsgTooManyRequests = "Too many requests. Please try again later."
)

// RegisterMetrics registers the rate limiter counter.
func RegisterMetrics(m interfaces.Metrics) {
	m.RegisterCounterVec(RateLimitedTotal, RateLimitedTotalHelp, []string{LabelRoute})
}

// NewLimiter builds a token bucket. A non-positive rate disables limiting.
func NewLimiter(requestsPerSecond float64, burst int) *rate.Limiter {
	if requestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// RateLimitMiddleware answers 429 once limiter runs dry. Rejections are
// counted per route when metrics is set.
func RateLimitMiddleware(limiter *rate.Limiter, route string, metrics interfaces.Metrics, logger interfaces.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				if metrics != nil {
					metrics.IncCounterVec(RateLimitedTotal, route)
				}
				if logger != nil {
					logger.Warn("Request rate limited", "route", route, "remote", r.RemoteAddr)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				resp := dto.RateLimitResponse{Message: MsgTooManyRequests}
				_ = json.NewEncoder(w).Encode(resp)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
