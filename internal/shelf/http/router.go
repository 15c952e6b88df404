package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/service"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/aussiebroadwan/shelf/pkg/httpx"
	"github.com/aussiebroadwan/shelf/pkg/jwtx"
	"github.com/aussiebroadwan/shelf/pkg/metricsx"
	"github.com/aussiebroadwan/shelf/pkg/slogx"

	_ "github.com/aussiebroadwan/shelf/api/shelf" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// PublicPrefixes are served without looking at the Authorization header.
var PublicPrefixes = []string{"/auth", "/livez", "/readyz", "/metrics", "/swagger"}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	codec        jwtx.TokenCodec
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	metrics      *metricsx.Metrics

	store        store.Store
	AuthService  *service.AuthService
	UserService  *service.UserService
	BookService  *service.BookService
	CookieSecure bool
}

func NewRouter(
	codec jwtx.TokenCodec,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	metrics *metricsx.Metrics,
) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		metrics:      metrics,
	}
}

// ApplyRoutes registers every route and builds the global middleware
// chain. Services must be set before it is called.
func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerBooks()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Gate(httpx.GateConfig{
			Codec:          r.codec,
			Identities:     r.UserService,
			PublicPrefixes: PublicPrefixes,
		}),
	}
	r.handler = httpx.Chain(r.Mux, r.middlewares...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Shelf API
//	@version		0.1.0
//	@description	Reading tracker: account sign-up and sign-in, Google Books search and a per-user read list.
//	@description
//	@description				Access tokens are HS256 JWTs valid for 24 hours. The refresh token lives in the HttpOnly refreshToken cookie.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/shelf
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
	r.handler.ServeHTTP(w, req)
}

// handle registers h under pattern, timed and counted with the pattern as
// the route label.
func (r *Router) handle(pattern string, h http.Handler) {
	if r.metrics != nil {
		h = r.metrics.Instrument(pattern, h)
	}
	r.Mux.Handle(pattern, h)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService:  r.AuthService,
		CookieSecure: r.CookieSecure,
		CookieMaxAge: r.AuthService.Sessions.CookieMaxAge(),
	}

	r.handle("POST /auth/register", http.HandlerFunc(h.HandleRegister))
	r.handle("POST /auth/login", http.HandlerFunc(h.HandleLogin))
	r.handle("POST /auth/refresh", http.HandlerFunc(h.HandleRefresh))
	r.handle("POST /auth/logout", http.HandlerFunc(h.HandleLogout))
}

func (r *Router) registerBooks() {
	h := &BookHandler{BookService: r.BookService}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, httpx.RequireIdentity())
	}

	r.handle("GET /api/books/search", secured(h.HandleSearch))
	r.handle("GET /api/books/paged", secured(h.HandlePaged))
	r.handle("GET /api/books/books/read/{googleBookId}", secured(h.HandleHasRead))
	r.handle("GET /api/books/{id}", secured(h.HandleVolume))
	r.handle("DELETE /api/books/{id}", secured(h.HandleDelete))
	r.handle("GET /api/books", secured(h.HandleList))
	r.handle("POST /api/books", secured(h.HandleAdd))
}

func (r *Router) registerSystem() {
	r.handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))

	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}
