// Package httpapi exposes the engine and the plant catalog over HTTP.
//
// Authentication endpoints mirror the engine operations one to one; the
// handlers do transport work only (decode, map errors, encode) and leave
// every rule to the engine and the catalog service.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/florafolio/florafolio"
)

// Server wires the HTTP routes to the auth engine and plant catalog.
type Server struct {
	engine *florafolio.Engine
	plants *PlantAPI
	log    zerolog.Logger

	http *http.Server
}

// New builds a server; call Router for the handler or Start to listen.
func New(addr string, engine *florafolio.Engine, plants *PlantAPI, log zerolog.Logger) *Server {
	s := &Server{engine: engine, plants: plants, log: log}
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Router assembles all routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)

	r.HandleFunc("/users/profile", s.handleProfile).Methods(http.MethodGet)
	r.HandleFunc("/users/{username}", s.handleUserByUsername).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}/username", s.handleUsernameUpdate).Methods(http.MethodPut)
	r.HandleFunc("/users/{id}/password", s.handlePasswordUpdate).Methods(http.MethodPut)

	if s.plants != nil {
		s.plants.register(r, s)
	}

	r.Use(s.logRequests)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Start listens until Shutdown or a listener error.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("http server starting")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.http.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// authenticate runs the handler only when the request carries a valid
// bearer token; otherwise it replies 401 itself.
func (s *Server) authenticate(next func(http.ResponseWriter, *http.Request, *florafolio.AuthResult)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication token required")
			return
		}
		auth, err := s.engine.Authenticate(r.Context(), token)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		next(w, r, auth)
	}
}

// adminOnly additionally requires the ADMIN role.
func (s *Server) adminOnly(next func(http.ResponseWriter, *http.Request, *florafolio.AuthResult)) http.HandlerFunc {
	return s.authenticate(func(w http.ResponseWriter, r *http.Request, auth *florafolio.AuthResult) {
		if auth.Role != florafolio.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next(w, r, auth)
	})
}
