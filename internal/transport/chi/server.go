// Package chi exposes the saved-search registry and the search validator
// over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lucendra/lucendra"
	logpkg "github.com/lucendra/lucendra/internal/logger"
	"github.com/lucendra/lucendra/internal/repository/searchstore"
)

// maxBodyBytes bounds search documents accepted by the gateway.
const maxBodyBytes = 1 << 20

// registry is the consumer interface over the saved-search repository (ISP).
type registry interface {
	Save(ctx context.Context, name string, doc []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// pinger checks registry database connectivity for health probes.
type pinger interface {
	Ping(ctx context.Context) error
}

// Server handles the gateway HTTP API.
type Server struct {
	registry registry
	pinger   pinger
	logger   *zap.Logger
}

// NewServer creates the gateway HTTP server.
func NewServer(reg registry, p pinger, logger *zap.Logger) *Server {
	return &Server{registry: reg, pinger: p, logger: logger}
}

// Routes builds the API router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/v1/searches/validate", s.handleValidate)
	r.Get("/v1/searches", s.handleList)
	r.Put("/v1/searches/{name}", s.handleSave)
	r.Get("/v1/searches/{name}", s.handleGet)
	r.Delete("/v1/searches/{name}", s.handleDelete)
	r.Get("/healthz", s.handleHealth)
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type validateResponse struct {
	Valid  bool            `json:"valid"`
	Search json.RawMessage `json:"search"`
}

type listResponse struct {
	Searches []string `json:"searches"`
}

// handleValidate decodes a search document and answers with its normalized
// encoding. The gateway never evaluates the search; it only checks that the
// document reconstructs through the codec.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.normalizedSearch(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, validateResponse{Valid: true, Search: doc})
}

// handleSave validates and stores a search document under a name.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.normalizedSearch(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	if err := s.registry.Save(r.Context(), name, doc); err != nil {
		s.writeRegistryError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGet returns a stored search document verbatim.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.registry.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeRegistryError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// handleList returns the names of all stored searches.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := s.registry.List(r.Context())
	if err != nil {
		s.writeRegistryError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, listResponse{Searches: names})
}

// handleDelete removes a stored search.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeRegistryError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleHealth checks registry database connectivity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.pinger.Ping(r.Context()); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// normalizedSearch reads the request body, decodes it as a search document
// and re-encodes it in canonical form. Writes the error response itself and
// reports ok=false when the document is rejected.
func (s *Server) normalizedSearch(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_body", "failed to read request body")
		return nil, false
	}

	search, err := lucendra.DecodeSearch(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_search", err.Error())
		return nil, false
	}

	doc, err := json.Marshal(search)
	if err != nil {
		logpkg.FromContext(r.Context()).Error("encode normalized search", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return nil, false
	}
	return doc, true
}

// writeRegistryError maps repository errors to API responses. Internal
// failures are logged with the request-scoped logger and never leak details
// to the client.
func (s *Server) writeRegistryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, searchstore.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "search_not_found", "search not found")
	case errors.Is(err, searchstore.ErrInvalidName):
		s.writeError(w, http.StatusBadRequest, "invalid_name", err.Error())
	default:
		logpkg.FromContext(r.Context()).Error("registry error", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}
