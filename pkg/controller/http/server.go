package http

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/edopt/chatbot/pkg/usecase"
	"github.com/edopt/chatbot/pkg/utils/logging"
	"github.com/edopt/chatbot/pkg/utils/metrics"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	// ServiceName is reported by the health endpoint
	ServiceName = "edopt-chatbot"

	DefaultRateLimitPerMinute = 15
)

// ChatUseCase answers user messages
type ChatUseCase interface {
	Process(ctx context.Context, input usecase.ChatInput) (*usecase.ChatOutput, error)
	Greet() *usecase.ChatOutput
}

// ConversationUseCase lists stored conversations
type ConversationUseCase interface {
	List(ctx context.Context, limit int) (*usecase.ConversationList, error)
}

// IndexUseCase rebuilds the embedding index
type IndexUseCase interface {
	Rebuild(ctx context.Context, contentTypes ...types.ContentType) (map[types.ContentType]int, error)
}

type Server struct {
	router         *chi.Mux
	chat           ChatUseCase
	conversation   ConversationUseCase
	index          IndexUseCase
	allowedOrigins []string
	ratePerMinute  int
	adminToken     string
	trustProxy     bool
	enableMetrics  bool
	reindex        *reindexState
}

type Options func(*Server)

// WithAllowedOrigins adds origins allowed by CORS. Local development origins are always allowed.
func WithAllowedOrigins(origins []string) Options {
	return func(s *Server) {
		s.allowedOrigins = append(s.allowedOrigins, origins...)
	}
}

// WithRateLimit sets the number of chat requests a client may send per minute. Zero disables the limit.
func WithRateLimit(perMinute int) Options {
	return func(s *Server) {
		s.ratePerMinute = perMinute
	}
}

// WithAdminToken protects the /api endpoints with a bearer token
func WithAdminToken(token string) Options {
	return func(s *Server) {
		s.adminToken = token
	}
}

// WithIndex enables POST /api/reindex. It requires an admin token.
func WithIndex(index IndexUseCase) Options {
	return func(s *Server) {
		s.index = index
	}
}

// WithTrustProxy takes the client address from X-Forwarded-For and X-Real-IP
func WithTrustProxy(enabled bool) Options {
	return func(s *Server) {
		s.trustProxy = enabled
	}
}

// WithMetrics serves Prometheus metrics on /metrics
func WithMetrics(enabled bool) Options {
	return func(s *Server) {
		s.enableMetrics = enabled
	}
}

func New(chat ChatUseCase, conversation ConversationUseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:         r,
		chat:           chat,
		conversation:   conversation,
		allowedOrigins: slices.Clone(localOrigins),
		ratePerMinute:  DefaultRateLimitPerMinute,
		reindex:        &reindexState{},
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	if s.trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(accessLogger)
	r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(s.allowedOrigins))

	r.Get("/health", healthHandler)
	r.Get("/greet", greetHandler(s.chat))

	r.Group(func(r chi.Router) {
		if s.ratePerMinute > 0 {
			r.Use(rateLimitMiddleware(newClientLimiter(s.ratePerMinute, time.Minute)))
		}
		r.Post("/chat", chatHandler(s.chat))
	})

	r.Route("/api", func(r chi.Router) {
		if s.adminToken != "" {
			r.Use(adminAuthMiddleware(s.adminToken))
		}
		r.Get("/conversations", conversationsHandler(s.conversation))

		if s.index != nil {
			if s.adminToken == "" {
				logging.Default().Warn("reindex endpoint disabled: no admin token configured")
			} else {
				r.Post("/reindex", reindexHandler(s.index, s.reindex))
			}
		}
	})

	if s.enableMetrics {
		r.Handle("/metrics", metrics.Handler())
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		ctx := logging.With(r.Context(), logger)

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}
