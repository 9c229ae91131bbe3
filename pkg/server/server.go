package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/adfharrison1/go-docstore/pkg/api"
	"github.com/adfharrison1/go-docstore/pkg/executor"
	"github.com/adfharrison1/go-docstore/pkg/storage"
)

// RequestIDHeader carries the id assigned to every request
const RequestIDHeader = "X-Request-Id"

// Server holds references to storage, router, etc.
type Server struct {
	router   *mux.Router
	dbEngine *storage.StorageEngine
	local    *executor.LocalExecutor
	logger   zerolog.Logger
}

// NewServer creates a new instance of Server. Queries must authenticate with
// one of secrets.
func NewServer(secrets []string, logger zerolog.Logger, storageOptions ...storage.StorageOption) *Server {
	storageOptions = append([]storage.StorageOption{storage.WithLogger(logger)}, storageOptions...)
	dbEngine := storage.NewStorageEngine(storageOptions...)
	local := executor.NewLocalExecutor(dbEngine, executor.WithLogger(logger))

	s := &Server{
		router:   mux.NewRouter(),
		dbEngine: dbEngine,
		local:    local,
		logger:   logger,
	}

	handler := api.NewHandler(local.Evaluator(), secrets, logger)
	handler.RegisterRoutes(s.router)

	s.router.Use(requestIDMiddleware, s.requestLoggerMiddleware)

	// Customize NotFoundHandler to log 404s
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Warn().Str("method", r.Method).Str("path", r.URL.Path).Msg("no route found")
		http.NotFound(w, r)
	})

	return s
}

// statusRecorder remembers the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestIDMiddleware tags every request and response with a request id
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// requestLoggerMiddleware logs the method, URL path, status and duration for each request.
func (s *Server) requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info().
			Str("request_id", r.Header.Get(RequestIDHeader)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// InitDB loads the snapshot file, if any
func (s *Server) InitDB(filename string) error {
	if err := s.dbEngine.LoadFromFile(filename); err != nil {
		s.logger.Error().Err(err).Str("file", filename).Msg("could not load snapshot")
		return err
	}
	return nil
}

// SaveDB saves the current database state to file
func (s *Server) SaveDB(filename string) error {
	if err := s.dbEngine.SaveToFile(filename); err != nil {
		s.logger.Error().Err(err).Str("file", filename).Msg("could not save snapshot")
		return err
	}
	return nil
}

// StartBackgroundWorkers starts periodic snapshots when configured
func (s *Server) StartBackgroundWorkers() {
	s.dbEngine.StartBackgroundWorkers()
}

// StopBackgroundWorkers stops periodic snapshots
func (s *Server) StopBackgroundWorkers() {
	s.dbEngine.StopBackgroundWorkers()
}

// Router exposes the internal mux.Router.
func (s *Server) Router() http.Handler {
	return s.router
}

// Executor returns an in-process executor over the server's database
func (s *Server) Executor() *executor.LocalExecutor {
	return s.local
}
