package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/metadex/internal/domain"
	"github.com/kailas-cloud/metadex/internal/domain/doctype"
	"github.com/kailas-cloud/metadex/internal/domain/plan"
	"github.com/kailas-cloud/metadex/internal/domain/search/filter"
	"github.com/kailas-cloud/metadex/internal/domain/search/result"
	"github.com/kailas-cloud/metadex/internal/metrics"
	healthuc "github.com/kailas-cloud/metadex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/metadex/internal/usecase/search"
	"github.com/kailas-cloud/metadex/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search API over HTTP.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	defaultLimit  int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger, defaultLimit int) *Server {
	s := &Server{
		search:       search,
		health:       health,
		logger:       logger,
		defaultLimit: defaultLimit,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUnknownDocumentType, http.StatusInternalServerError, codeConfigError),
		sentinelHandler(domain.ErrFacetConfig, http.StatusInternalServerError, codeConfigError),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusBadGateway, codeStoreUnavailable),
	}
	return s
}

const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeConfigError      = "config_error"
	codeStoreUnavailable = "store_unavailable"
)

// Routes registers the API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Index)
	r.Post("/rpc/search", s.Search)
	r.Get("/healthz", s.HealthCheck)
}

type searchRequest struct {
	Query   string      `json:"query"`
	Filters []filterDTO `json:"filters"`
}

type filterDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type searchResponse struct {
	Facets []facetDTO `json:"facets"`
	Count  int        `json:"count"`
	Hits   []hitDTO   `json:"hits"`
}

type facetDTO struct {
	Key     string      `json:"key"`
	Name    string      `json:"name"`
	Options []optionDTO `json:"options"`
}

type optionDTO struct {
	Option string `json:"option"`
	Count  int    `json:"count"`
}

type hitDTO struct {
	DocumentType string         `json:"document_type"`
	ID           string         `json:"id"`
	Content      map[string]any `json:"content"`
}

type indexResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, indexResponse{
		Name:    "metadex",
		Version: version.Version,
	})
}

// Search handles POST /rpc/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	rawType := r.URL.Query().Get("document_type")
	if rawType == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "'document_type' parameter is required")
		return
	}
	dt, err := doctype.Parse(rawType)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			fmt.Sprintf("unknown document type %q", rawType))
		return
	}

	returnFacets, err := boolParam(r, "return_facets", false)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"'return_facets' parameter must be a boolean")
		return
	}
	skip, err := intParam(r, "skip", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"'skip' parameter must be an integer")
		return
	}
	if skip < 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"'skip' parameter must be greater than or equal to 0")
		return
	}
	limit, err := intParam(r, "limit", s.defaultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"'limit' parameter must be an integer")
		return
	}
	if limit < 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"'limit' parameter must be greater than or equal to 0")
		return
	}

	query := req.Query
	if query == "" {
		query = plan.Wildcard
	}

	filters := make([]filter.Option, len(req.Filters))
	for i, f := range req.Filters {
		filters[i] = filter.New(f.Key, f.Value)
	}

	start := time.Now()
	res, err := s.search.Search(r.Context(), dt, query, filters, returnFacets, skip, limit)
	metrics.SearchDuration.WithLabelValues(string(dt)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(string(dt), "error").Inc()
		s.handleDomainError(w, err)
		return
	}
	metrics.SearchesTotal.WithLabelValues(string(dt), "ok").Inc()

	writeJSON(w, http.StatusOK, searchResultToDTO(res))
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func searchResultToDTO(res result.Result) searchResponse {
	facets := make([]facetDTO, len(res.Facets))
	for i, f := range res.Facets {
		options := make([]optionDTO, len(f.Options))
		for j, o := range f.Options {
			options[j] = optionDTO{Option: o.Option, Count: o.Count}
		}
		facets[i] = facetDTO{Key: f.Key, Name: f.Name, Options: options}
	}

	hits := make([]hitDTO, len(res.Hits))
	for i, h := range res.Hits {
		hits[i] = hitDTO{
			DocumentType: string(h.DocumentType),
			ID:           h.ID,
			Content:      h.Content,
		}
	}

	return searchResponse{
		Facets: facets,
		Count:  res.Count,
		Hits:   hits,
	}
}

func boolParam(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", name, err)
	}
	return v, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUnknownDocumentType,
		domain.ErrFacetConfig,
		domain.ErrDocumentNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "metadata store unavailable"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("store error", zap.Error(err))
	writeError(w, http.StatusBadGateway, codeStoreUnavailable, msg)
}
