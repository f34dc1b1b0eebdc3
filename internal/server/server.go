// Package server provides the HTTP API for the career chatbot.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lmercier/careerchat/internal/chat"
	"github.com/lmercier/careerchat/internal/config"
	"github.com/lmercier/careerchat/internal/vector"
)

// Server is the HTTP server for the chatbot API. The answerer is swapped
// atomically when the snapshot is reloaded, so requests always see a
// consistent index.
type Server struct {
	mu       sync.RWMutex
	answerer *chat.Answerer
	index    *vector.Index
	buildID  string

	config *config.Config
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a server. answerer and index may be nil when no snapshot
// exists yet; chat requests then return 503 until SetAnswerer is called.
func NewServer(answerer *chat.Answerer, index *vector.Index, buildID string, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		answerer: answerer,
		index:    index,
		buildID:  buildID,
		config:   cfg,
		logger:   logger,
	}
}

// SetAnswerer swaps the serving pipeline, typically after a snapshot reload.
func (s *Server) SetAnswerer(answerer *chat.Answerer, index *vector.Index, buildID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answerer = answerer
	s.index = index
	s.buildID = buildID
}

func (s *Server) current() (*chat.Answerer, *vector.Index, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.answerer, s.index, s.buildID
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// The timeout must exceed the LLM generation timeout so slow answers
	// are not cut off by the router.
	r.Use(middleware.Timeout(150 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/chat", s.handleChat)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
