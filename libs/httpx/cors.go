package httpx

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CORSPolicy describes which browser origins may call the API. The dashboard
// frontend is the only expected caller, so the policy stays deliberately
// small: exact-match origins plus the "*" wildcard.
type CORSPolicy struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// WithCORS answers preflights and stamps CORS headers for allowed origins.
// With no configured origins it passes every request through untouched.
func WithCORS(policy CORSPolicy) Middleware {
	if len(policy.AllowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	origins := trimNonEmpty(policy.AllowedOrigins)
	methodsHeader := strings.Join(trimNonEmpty(policy.AllowedMethods), ", ")
	headersHeader := strings.Join(trimNonEmpty(policy.AllowedHeaders), ", ")
	maxAgeHeader := ""
	if secs := int(policy.MaxAge.Seconds()); secs > 0 {
		maxAgeHeader = strconv.Itoa(secs)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowValue, allowed := resolveOrigin(origin, origins, policy.AllowCredentials)
			if !allowed {
				// Not an allowed origin; the browser enforces the block.
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowValue)
			if policy.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if methodsHeader != "" {
				h.Set("Access-Control-Allow-Methods", methodsHeader)
			}
			if headersHeader != "" {
				h.Set("Access-Control-Allow-Headers", headersHeader)
			}
			if maxAgeHeader != "" {
				h.Set("Access-Control-Max-Age", maxAgeHeader)
			}
			h.Add("Vary", "Origin")
			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")

			if isPreflight(r) {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
}

// resolveOrigin picks the Allow-Origin value for a request origin. With
// credentials a wildcard must echo the concrete origin, since browsers
// reject "*" on credentialed responses.
func resolveOrigin(origin string, allowed []string, credentials bool) (string, bool) {
	for _, a := range allowed {
		switch {
		case a == "*" && credentials:
			return origin, true
		case a == "*":
			return "*", true
		case strings.EqualFold(a, origin):
			return origin, true
		}
	}
	return "", false
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
