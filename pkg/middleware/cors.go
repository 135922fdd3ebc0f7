package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/stockroom/config"
)

// CORSOptions is the browser origin policy shared by the CORS middleware and
// the dashboard websocket.
//
// "*" in AllowedOrigins lets any origin read responses anonymously. Listed
// origins are echoed back with credentials allowed, so the dashboard
// session cookie travels with them.
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string
	MaxAge         int // preflight cache, seconds
}

// DefaultCORSOptions allows any origin without credentials.
func DefaultCORSOptions() CORSOptions {
	return CORSOptions{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}
}

// CORSOptionsFromEnv is DefaultCORSOptions with origins from CORS_ORIGINS.
func CORSOptionsFromEnv() CORSOptions {
	opts := DefaultCORSOptions()
	if origins := config.CORSOrigins(); len(origins) > 0 {
		opts.AllowedOrigins = origins
	}
	return opts
}

func (o CORSOptions) wildcard() bool {
	for _, a := range o.AllowedOrigins {
		if a == "*" {
			return true
		}
	}
	return false
}

// listed reports whether origin is named explicitly. Scheme and host compare
// case-insensitively.
func (o CORSOptions) listed(origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range o.AllowedOrigins {
		if a != "*" && strings.EqualFold(strings.TrimRight(a, "/"), origin) {
			return true
		}
	}
	return false
}

// CheckOrigin decides websocket upgrades: requests without an Origin header,
// same-host origins and listed origins pass. The wildcard does not apply
// because the upgrade carries the session cookie.
func (o CORSOptions) CheckOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	return o.listed(origin)
}

// CORS returns a middleware that adds Cross-Origin Resource Sharing headers
// and answers preflight requests.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	methods := strings.Join(opts.AllowedMethods, ", ")
	headers := strings.Join(opts.AllowedHeaders, ", ")
	exposed := strings.Join(opts.ExposedHeaders, ", ")
	wildcard := opts.wildcard()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			w.Header().Add("Vary", "Origin")

			switch {
			case origin == "":
			case opts.listed(origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			default:
				origin = ""
			}

			if origin != "" && exposed != "" {
				w.Header().Set("Access-Control-Expose-Headers", exposed)
			}

			if r.Method != http.MethodOptions || r.Header.Get("Access-Control-Request-Method") == "" {
				next.ServeHTTP(w, r)
				return
			}
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				if opts.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(opts.MaxAge))
				}
			}
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
