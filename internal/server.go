package internal

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/notification"
	"github.com/taskdeck/taskdeck/internal/push"
	"github.com/taskdeck/taskdeck/internal/realtime"
	"github.com/taskdeck/taskdeck/internal/task"
	"github.com/taskdeck/taskdeck/internal/user"
	"github.com/taskdeck/taskdeck/pkg/cerr"
	"github.com/taskdeck/taskdeck/pkg/clog"
)

type Server struct {
	server              *http.Server
	env                 *config.Env
	tokens              *auth.TokenService
	userHandler         *user.Handler
	taskHandler         *task.Handler
	notificationHandler *notification.Handler
	pushHandler         *push.Handler
	streamHandler       *realtime.StreamHandler
}

func NewServer(
	env *config.Env,
	tokens *auth.TokenService,
	userHandler *user.Handler,
	taskHandler *task.Handler,
	notificationHandler *notification.Handler,
	pushHandler *push.Handler,
	streamHandler *realtime.StreamHandler,
) *Server {
	return &Server{
		env:                 env,
		tokens:              tokens,
		userHandler:         userHandler,
		taskHandler:         taskHandler,
		notificationHandler: notificationHandler,
		pushHandler:         pushHandler,
		streamHandler:       streamHandler,
	}
}

// ListenAndServe starts the HTTP server. The provided context is the base
// context for all incoming requests; cancelling it (on shutdown signal)
// also cancels every open event stream so shutdown does not wait on them.
func (s *Server) ListenAndServe(ctx context.Context) error {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(clog.SlogChiMiddleware())

		// The event stream authenticates its own handshake and writes
		// directly, so it stays outside the JSON response middleware.
		r.Method(http.MethodGet, "/events", s.streamHandler)

		r.Group(func(r chi.Router) {
			r.Use(cerr.NewJSONResponseChiMiddleware())

			r.Post("/auth/register", s.userHandler.Register)
			r.Post("/auth/login", s.userHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware(s.tokens))
				r.Get("/users/me", s.userHandler.Me)
				s.taskHandler.Routes(r)
				s.notificationHandler.Routes(r)
				s.pushHandler.Routes(r)
			})

			r.NotFound(func(w http.ResponseWriter, r *http.Request) {
				cerr.SetNewJSONError(r.Context(), cerr.NotFound, "not found", nil)
			})
		})
	})

	mux := http.NewServeMux()
	mux.Handle("/health", &HealthChecker{})
	mux.Handle("/api/", r)

	addr := net.JoinHostPort(s.env.HTTPHost, s.env.HTTPPort)
	slog.Info("starting server", "addr", addr)

	s.server = &http.Server{
		Addr: addr,
		Handler: h2c.NewHandler(cors.New(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}).Handler(mux), &http2.Server{}),
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type HealthChecker struct{}

func (hc *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
