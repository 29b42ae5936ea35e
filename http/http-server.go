package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"log/slog"

	"github.com/luminara-app/backend/owner/auth"
	"github.com/luminara-app/backend/secgate"

	mediahttp "github.com/luminara-app/backend/media/http"
	ownerhttp "github.com/luminara-app/backend/owner/http"
	sessionhttp "github.com/luminara-app/backend/session/http"
	solvehttp "github.com/luminara-app/backend/solve/http"
)

type HttpServer struct {
	router  *chi.Mux
	gateway *secgate.Gateway
	stats   *statsLogger
}

func NewHttpServer(
	solveHandler *solvehttp.SolveHttpHandler,
	ownerHandler *ownerhttp.OwnerHttpHandler,
	sessionHandler *sessionhttp.SessionHttpHandler,
	mediaHandler *mediahttp.MediaHttpHandler,
	gateway *secgate.Gateway,
	jwtKey []byte,
) *HttpServer {
	router := chi.NewRouter()

	logger := httplog.NewLogger("luminara", httplog.Options{
		LogLevel:         slog.LevelDebug,
		Concise:          true,
		RequestHeaders:   true,
		MessageFieldName: "message",
		Tags: map[string]string{
			"env": "dev",
		},
	})

	router.Use(httplog.RequestLogger(logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "https://luminara.app", "https://www.luminara.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           3000,
	}))

	stats := newStatsLogger()
	router.Use(stats.middleware)

	router.Use(auth.GetJwtAuthMiddleware(jwtKey))

	server := &HttpServer{
		router:  router,
		gateway: gateway,
		stats:   stats,
	}

	solveHandler.RegisterRoutes(router)
	ownerHandler.RegisterRoutes(router)
	sessionHandler.RegisterRoutes(router)
	mediaHandler.RegisterRoutes(router)
	router.Get("/audit", server.getAuditEvents)

	return server
}

func (httpserver *HttpServer) Start(address string) error {
	return http.ListenAndServe(address, httpserver.router)
}

// Router exposes the assembled handler for tests and embedding.
func (httpserver *HttpServer) Router() *chi.Mux {
	return httpserver.router
}

// Stop tears down the server's background work.
func (httpserver *HttpServer) Stop() {
	httpserver.stats.stop()
}
