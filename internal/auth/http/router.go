package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/auth/metrics"
	"github.com/aussiebroadwan/gatekeep/internal/auth/service"
	"github.com/aussiebroadwan/gatekeep/internal/auth/store"
	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"

	_ "github.com/aussiebroadwan/gatekeep/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Options tunes the router. The zero value is usable.
type Options struct {
	BuildVersion string
	CookieSecure bool
	Limits       httpx.Limits // zero falls back to httpx.DefaultLimits
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	limits       httpx.Limits
	cookie       refreshCookie

	store       store.Store
	metrics     *metrics.Metrics
	AuthService *service.AuthService
}

func NewRouter(
	auth *service.AuthService,
	st store.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
	opts Options,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	limits := opts.Limits
	if limits == (httpx.Limits{}) {
		limits = httpx.DefaultLimits()
	}

	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: opts.BuildVersion,
		startTime:    time.Now(),
		logger:       logger,
		limits:       limits,
		cookie: refreshCookie{
			Secure: opts.CookieSecure,
			MaxAge: auth.Codec.RefreshTTL(),
		},
		store:       st,
		metrics:     m,
		AuthService: auth,
	}

	// The metrics middleware sits innermost so it sees the request the mux
	// stamps with the matched pattern.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		r.metrics.Middleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()

	r.Mux.Handle("GET /swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Gatekeep Authentication Service API
//	@version		0.1.0
//	@description	Username/password authentication issuing short-lived access tokens and single-use refresh tokens.
//	@description
//	@description				Refresh tokens travel in the HttpOnly refresh_token cookie and are rotated on every use.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/gatekeep
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /signup - strict rate limit by IP (account creation)
	r.Mux.Handle("POST /signup",
		httpx.Chain(&SignupHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)

	// POST /login - strict rate limit by IP + username to slow password guessing
	r.Mux.Handle("POST /login",
		httpx.Chain(&LoginHandler{AuthService: r.AuthService, Cookie: r.cookie},
			httpx.RateLimitByIPAndFormField(r.limits.Strict, "username"),
		),
	)

	r.Mux.Handle("GET /user",
		httpx.Chain(&UserHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)

	r.Mux.Handle("GET /refresh",
		httpx.Chain(&RefreshHandler{AuthService: r.AuthService, Cookie: r.cookie},
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)

	r.Mux.Handle("POST /logout",
		httpx.Chain(&LogoutHandler{AuthService: r.AuthService, Cookie: r.cookie},
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /connection",
		httpx.Chain(ConnectionHandler(),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
	r.Mux.Handle("GET /metrics", r.metrics.Handler())
}
