package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/s123600g/tokenforge/internal/api/http/handler"
	"github.com/s123600g/tokenforge/internal/api/http/middleware"
	"github.com/s123600g/tokenforge/internal/config"
	"github.com/s123600g/tokenforge/internal/logger"
	"github.com/s123600g/tokenforge/internal/model"
	"github.com/s123600g/tokenforge/internal/service"
	"github.com/s123600g/tokenforge/internal/token"
)

// Router wires handlers and middleware into the HTTP route table.
type Router struct {
	lifecycle      *service.TokenLifecycle
	signer         *token.Signer
	contextManager model.ContextManager
	cfg            *config.Config
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	lifecycle *service.TokenLifecycle,
	signer *token.Signer,
	contextManager model.ContextManager,
	cfg *config.Config,
	logger *logger.Logger,
) *Router {
	return &Router{
		lifecycle:      lifecycle,
		signer:         signer,
		contextManager: contextManager,
		cfg:            cfg,
		logger:         logger,
	}
}

// Register builds the route table. Sign-in stays public; refresh and token
// info require a verified bearer token.
func (r *Router) Register() *mux.Router {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.signer, r.cfg.JWT.SignKey, r.cfg.JWT.Issuer, r.contextManager, r.logger)
	tokenHandler := handler.NewToken(r.lifecycle, r.contextManager, r.cfg.JWT, r.logger)

	m := mux.NewRouter()
	m.Use(logging.Handle)

	m.HandleFunc("/", tokenHandler.Home).Methods(http.MethodGet)
	m.HandleFunc("/health", tokenHandler.Health).Methods(http.MethodGet)

	public := m.PathPrefix("/api").Subrouter()
	public.HandleFunc("/signin", tokenHandler.SignIn).Methods(http.MethodPost)

	protected := m.PathPrefix("/api").Subrouter()
	protected.Use(authenticate.Handle)
	protected.HandleFunc("/refresh", tokenHandler.Refresh).Methods(http.MethodPost)
	protected.HandleFunc("/get/info", tokenHandler.GetInfo).Methods(http.MethodGet)

	return m
}
