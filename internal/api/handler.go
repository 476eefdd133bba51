package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"medlocator/m/domain"
	"medlocator/m/internal/geo"
	"medlocator/m/internal/metrics"
	"medlocator/m/internal/recommend"
)

const (
	defaultSearchLimit = 25
	maxSearchLimit     = 100
)

// Recommender ranks the stores stocking a queried medicine.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*domain.Recommendation, error)
}

// Directory lists catalog records for browsing.
type Directory interface {
	SearchMedicines(ctx context.Context, query string, limit int) ([]domain.Medicine, error)
	ListStores(ctx context.Context) ([]domain.Store, error)
}

// Options carries the optional collaborators of a Handler.
type Options struct {
	// Weights fill in weights a request leaves out.
	Weights        recommend.Weights
	AllowedOrigins []string
	Logger         *zap.Logger
	// Metrics may be nil to disable instrumentation and /metrics.
	Metrics *metrics.Manager
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	recommender Recommender
	directory   Directory
	weights     recommend.Weights
	origins     []string
	logger      *zap.Logger
	metrics     *metrics.Manager
}

// New constructs a Handler.
func New(recommender Recommender, directory Directory, opts Options) *Handler {
	h := &Handler{
		recommender: recommender,
		directory:   directory,
		weights:     opts.Weights,
		origins:     opts.AllowedOrigins,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if len(h.origins) == 0 {
		h.origins = []string{"*"}
	}
	return h
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))
	if h.metrics != nil {
		r.Use(h.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	r.Get("/health", h.health)
	r.Post("/recommend", h.recommend)
	r.Get("/medicines", h.searchMedicines)
	r.Get("/stores", h.listStores)

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type recommendRequest struct {
	QText *string  `json:"qtext"`
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
	WP    *float64 `json:"w_p,omitempty"`
	WD    *float64 `json:"w_d,omitempty"`
	WA    *float64 `json:"w_a,omitempty"`
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.QText == nil {
		respondError(w, http.StatusBadRequest, "qtext is required")
		return
	}
	if req.Lat == nil || req.Lon == nil {
		respondError(w, http.StatusBadRequest, "lat and lon are required")
		return
	}
	query := *req.QText

	weights := h.weights
	if req.WP != nil {
		weights.Price = *req.WP
	}
	if req.WD != nil {
		weights.Distance = *req.WD
	}
	if req.WA != nil {
		weights.Availability = *req.WA
	}

	start := time.Now()
	rec, err := h.recommender.Recommend(r.Context(), recommend.Request{
		Query:    query,
		Location: geo.Point{Lat: *req.Lat, Lon: *req.Lon},
		Weights:  weights,
	})
	if err != nil {
		status, outcome := classify(err)
		h.record(outcome, 0, time.Since(start))
		if status >= http.StatusInternalServerError {
			h.logger.Error("recommendation failed", zap.String("query", query), zap.Error(err))
			respondError(w, status, "unable to compute recommendation")
			return
		}
		respondError(w, status, err.Error())
		return
	}

	outcome := metrics.OutcomeOK
	if rec.Fallback {
		outcome = metrics.OutcomeFallback
	}
	h.record(outcome, len(rec.Matches), time.Since(start))
	h.logger.Info("recommendation served",
		zap.String("query", query),
		zap.Int64("medicine_id", rec.Medicine.ID),
		zap.Int("candidates", len(rec.Matches)),
		zap.Int64("best_store_id", rec.Best.StoreID),
		zap.Float64("best_score", rec.Best.Score),
		zap.Bool("fallback", rec.Fallback),
	)
	respondJSON(w, http.StatusOK, rec)
}

func (h *Handler) record(outcome string, candidates int, elapsed time.Duration) {
	if h.metrics != nil {
		h.metrics.RecordRecommendation(outcome, candidates, elapsed)
	}
}

// classify maps engine errors to an HTTP status and a metrics outcome.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, recommend.ErrInvalidCoordinate), errors.Is(err, recommend.ErrInvalidWeight):
		return http.StatusBadRequest, metrics.OutcomeInvalid
	case errors.Is(err, recommend.ErrNoStockFound):
		return http.StatusNotFound, metrics.OutcomeNoStock
	case errors.Is(err, recommend.ErrNoMatch):
		return http.StatusNotFound, metrics.OutcomeNoMatch
	case errors.Is(err, recommend.ErrEmptyCatalog):
		return http.StatusServiceUnavailable, metrics.OutcomeEmptyCatalog
	default:
		return http.StatusInternalServerError, metrics.OutcomeError
	}
}

func (h *Handler) searchMedicines(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxSearchLimit)
	}
	medicines, err := h.directory.SearchMedicines(r.Context(), query, limit)
	if err != nil {
		h.logger.Error("medicine search failed", zap.String("query", query), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "unable to search medicines")
		return
	}
	if medicines == nil {
		medicines = []domain.Medicine{}
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.directory.ListStores(r.Context())
	if err != nil {
		h.logger.Error("store listing failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "unable to list stores")
		return
	}
	if stores == nil {
		stores = []domain.Store{}
	}
	respondJSON(w, http.StatusOK, stores)
}

// Helpers
func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
