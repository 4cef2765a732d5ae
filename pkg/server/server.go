package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/rankwatch/rankwatch/pkg/artifact"
	"github.com/rankwatch/rankwatch/pkg/collector"
	"github.com/rankwatch/rankwatch/pkg/config"
	"github.com/rankwatch/rankwatch/pkg/server/middleware"
	"github.com/rankwatch/rankwatch/pkg/server/store"
	gormstore "github.com/rankwatch/rankwatch/pkg/server/store/gorm"
)

type Server struct {
	Router    *mux.Router
	DB        *gorm.DB
	Config    *config.Config
	Collector *collector.Collector
	Files     artifact.Store

	RunsStore      store.RunsStore
	RowsStore      store.RowsStore
	ArtifactsStore store.ArtifactsStore
	TargetsStore   store.TargetsStore
	HealthStore    store.HealthStore

	// TokenMiddleware guards mutating endpoints. Nil means the guard is
	// disabled and mutating endpoints are open.
	TokenMiddleware *middleware.TokenAuthenticator

	srv *http.Server
}

func NewServer(
	db *gorm.DB,
	cfg *config.Config,
	c *collector.Collector,
	files artifact.Store,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	var tokenMiddleware *middleware.TokenAuthenticator
	if key := os.Getenv("RANKWATCH_API_TOKEN_KEY"); key != "" {
		tokenMiddleware = middleware.NewTokenAuthenticator([]byte(key))
	}

	return &Server{
		Router:          router,
		DB:              db,
		Config:          cfg,
		Collector:       c,
		Files:           files,
		RunsStore:       gormstore.NewRunsStore(db),
		RowsStore:       gormstore.NewRowsStore(db),
		ArtifactsStore:  gormstore.NewArtifactsStore(db),
		TargetsStore:    gormstore.NewTargetsStore(db),
		HealthStore:     gormstore.NewHealthStore(db),
		TokenMiddleware: tokenMiddleware,
		srv:             srv,
	}
}

// Guard wraps a handler with the token middleware when one is configured.
func (s *Server) Guard(next http.Handler) http.Handler {
	if s.TokenMiddleware == nil {
		return next
	}
	return s.TokenMiddleware.Middleware(next)
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}
