package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/renderinc/product-publisher/internal/pool"
	"github.com/renderinc/product-publisher/internal/publish"
	"github.com/renderinc/product-publisher/internal/search"
	"github.com/renderinc/product-publisher/internal/storage"
)

// Searcher answers catalog queries
type Searcher interface {
	Search(query string, limit int) ([]*search.SearchResult, error)
}

type Server struct {
	publisher *publish.Publisher
	store     storage.Store
	searcher  Searcher
	pool      *pool.Pool
	logger    *slog.Logger
	now       func() time.Time
}

type SearchResponse struct {
	Results []*search.SearchResult `json:"results"`
	Query   string                 `json:"query"`
	Count   int                    `json:"count"`
}

// Option configures a Server
type Option func(*Server)

// WithSearcher enables GET /search
func WithSearcher(s Searcher) Option {
	return func(srv *Server) { srv.searcher = s }
}

// WithPool serves every request on a worker from p
func WithPool(p *pool.Pool) Option {
	return func(srv *Server) { srv.pool = p }
}

func WithLogger(logger *slog.Logger) Option {
	return func(srv *Server) { srv.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(srv *Server) { srv.now = now }
}

func NewServer(publisher *publish.Publisher, store storage.Store, opts ...Option) *Server {
	s := &Server{
		publisher: publisher,
		store:     store,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/publish", s.handlePublish)
	mux.HandleFunc("/products", s.handleProducts)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/search", s.handleSearch)

	var h http.Handler = mux
	if s.pool != nil {
		h = s.pool.Middleware(h, http.HandlerFunc(s.handleShuttingDown))
	}
	return logRequests(s.logger, h)
}

func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody(message, s.now()))
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error("error reading publish request", "error", err)
		s.sendError(w, http.StatusInternalServerError, "Internal server error: "+err.Error())
		return
	}

	result, err := s.publisher.Publish(r.Context(), string(body))
	if err != nil {
		var verr *publish.ValidationError
		if errors.As(err, &verr) {
			s.sendError(w, http.StatusBadRequest, verr.Error())
			return
		}
		s.logger.Error("error publishing product", "error", err)
		s.sendError(w, http.StatusInternalServerError, "Internal server error: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result.Body)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, productListBody)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	count, err := s.store.Count()
	if err != nil {
		s.logger.Error("error counting products", "error", err)
		count = 0
	}

	writeJSON(w, http.StatusOK, statsBody(count, s.now()))
}

func (s *Server) handleShuttingDown(w http.ResponseWriter, r *http.Request) {
	s.sendError(w, http.StatusServiceUnavailable, "Server shutting down")
}

// handleHealth answers every method
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthBody(s.now()))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.searcher == nil {
		s.sendError(w, http.StatusServiceUnavailable, "Search index not enabled")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		s.sendError(w, http.StatusBadRequest, "Missing q parameter")
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	results, err := s.searcher.Search(query, limit)
	if err != nil {
		s.logger.Error("error searching products", "query", query, "error", err)
		s.sendError(w, http.StatusInternalServerError, "Search failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SearchResponse{
		Results: results,
		Query:   query,
		Count:   len(results),
	})
}
