package api

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
)

// APIKeyHeader carries the shared secret on protected routes.
const APIKeyHeader = "X-API-KEY"

// CORSOptions holds CORS settings.
type CORSOptions struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
	MaxAge         int
}

// CORS returns middleware that handles Cross-Origin Resource Sharing.
// It sets headers for allowed origins and answers preflight OPTIONS requests.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	origins := strings.Split(opts.AllowedOrigins, ",")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && isAllowedOrigin(origin, origins) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", opts.AllowedMethods)
				w.Header().Set("Access-Control-Allow-Headers", opts.AllowedHeaders)
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(opts.MaxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isAllowedOrigin(origin string, allowed []string) bool {
	for _, a := range allowed {
		a = strings.TrimSpace(a)
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

// APIKey rejects requests whose X-API-KEY header is missing or wrong.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(APIKeyHeader)
			switch {
			case got == "":
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Missing X-API-KEY header"})
				return
			case key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1:
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid API Key provided"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
