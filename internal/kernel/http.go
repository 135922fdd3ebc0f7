// Package kernel assembles the HTTP handler shared by both servers: the
// global middleware stack, the operational endpoints and the routes
// registered by the caller.
package kernel

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/stockroom/pkg/metrics"
	"github.com/shashiranjanraj/stockroom/pkg/middleware"
	"github.com/shashiranjanraj/stockroom/pkg/reqid"
	"github.com/shashiranjanraj/stockroom/pkg/response"
	"github.com/shashiranjanraj/stockroom/pkg/router"
	"github.com/shashiranjanraj/stockroom/pkg/session"
)

// Options tunes the global middleware. Zero values disable sessions, use
// a 200 requests/minute limit and take the CORS policy from CORS_ORIGINS.
type Options struct {
	Sessions   *session.Manager
	RateLimit  int
	RatePeriod time.Duration
	CORS       *middleware.CORSOptions
}

// RegisterFunc mounts a group of routes.
type RegisterFunc func(r *router.Router) error

// Kernel is a configured router ready to serve.
type Kernel struct {
	r *router.Router
}

// New builds the router. Global middleware, outermost first:
//
//  1. metrics     total latency including the rest of the stack
//  2. Recovery    a panic becomes a 500
//  3. request ID  before anything logs
//  4. Logger      access log carrying the request ID
//  5. session     dashboard only
//  6. CORS
//  7. rate limit
func New(opts Options, register ...RegisterFunc) (*Kernel, error) {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 200
	}
	if opts.RatePeriod <= 0 {
		opts.RatePeriod = time.Minute
	}

	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	if opts.Sessions != nil {
		r.Use(opts.Sessions.Middleware())
	}
	cors := middleware.CORSOptionsFromEnv()
	if opts.CORS != nil {
		cors = *opts.CORS
	}
	r.Use(middleware.CORS(cors))
	r.Use(middleware.RateLimit(middleware.NewLimiter(opts.RateLimit, opts.RatePeriod)))

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})

	for _, fn := range register {
		if err := fn(r); err != nil {
			return nil, err
		}
	}
	return &Kernel{r: r}, nil
}

func (k *Kernel) Handler() http.Handler { return k.r.Handler() }

// Routes lists the named routes, for route:list.
func (k *Kernel) Routes() []router.Route { return k.r.Routes() }
