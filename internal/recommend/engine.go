// Package recommend ranks the outlets stocking a medicine by a weighted mix
// of price, distance and availability.
package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"medlocator/m/domain"
	"medlocator/m/internal/geo"
)

// Default weights applied when a request leaves them out.
const (
	DefaultWeightPrice        = 0.5
	DefaultWeightDistance     = 0.3
	DefaultWeightAvailability = 0.2
)

// Catalog is the read side of the medicine/store/inventory data. Each call is
// treated as a consistent snapshot.
type Catalog interface {
	ListMedicines(ctx context.Context) ([]domain.Medicine, error)
	ListStockingEntries(ctx context.Context, medicineID int64) ([]domain.StockingEntry, error)
}

// Weights scale the normalized signals. They do not need to sum to 1.
type Weights struct {
	Price        float64
	Distance     float64
	Availability float64
}

// DefaultWeights returns 0.5/0.3/0.2.
func DefaultWeights() Weights {
	return Weights{
		Price:        DefaultWeightPrice,
		Distance:     DefaultWeightDistance,
		Availability: DefaultWeightAvailability,
	}
}

func (w Weights) valid() bool {
	for _, v := range []float64{w.Price, w.Distance, w.Availability} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Request is a single recommendation query.
type Request struct {
	Query    string
	Location geo.Point
	Weights  Weights
}

// Option configures an Engine.
type Option func(*Engine)

// WithDistanceFunc replaces the Haversine distance.
func WithDistanceFunc(fn geo.DistanceFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.distance = fn
		}
	}
}

// WithStrictMatch makes a query that matches no medicine fail with ErrNoMatch
// instead of falling back to the first medicine.
func WithStrictMatch(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine resolves a query to a medicine and ranks the stores stocking it.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	catalog  Catalog
	distance geo.DistanceFunc
	strict   bool
	logger   *zap.Logger
}

// NewEngine creates an Engine reading from catalog.
func NewEngine(catalog Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:  catalog,
		distance: geo.Haversine,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend matches req.Query to a medicine and ranks every store that stocks
// it. The best store is the first element of the ranked list.
func (e *Engine) Recommend(ctx context.Context, req Request) (*domain.Recommendation, error) {
	if !req.Location.Valid() {
		return nil, fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinate, req.Location.Lat, req.Location.Lon)
	}
	if !req.Weights.valid() {
		return nil, fmt.Errorf("%w: weights must be finite", ErrInvalidWeight)
	}

	medicines, err := e.catalog.ListMedicines(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch medicines: %w", err)
	}
	med, matched, err := MatchMedicine(req.Query, medicines)
	if err != nil {
		return nil, err
	}
	if !matched {
		if e.strict {
			return nil, fmt.Errorf("%w: %q", ErrNoMatch, req.Query)
		}
		e.logger.Debug("query matched no medicine, using first catalog entry",
			zap.String("query", req.Query), zap.Int64("medicine_id", med.ID))
	}

	entries, err := e.catalog.ListStockingEntries(ctx, med.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch stocking entries for medicine %d: %w", med.ID, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: medicine %d", ErrNoStockFound, med.ID)
	}

	matches := Rank(req.Location, entries, req.Weights, e.distance)
	return &domain.Recommendation{
		Medicine: med,
		Matches:  matches,
		Best:     matches[0],
		Fallback: !matched,
	}, nil
}

// Rank scores entries against origin and sorts them ascending by score.
// Entries with equal scores keep their input order.
func Rank(origin geo.Point, entries []domain.StockingEntry, w Weights, distance geo.DistanceFunc) []domain.MatchResult {
	if distance == nil {
		distance = geo.Haversine
	}

	matches := make([]domain.MatchResult, len(entries))
	signals := make([]Signal, len(entries))
	for i, en := range entries {
		dist := round(distance(origin, geo.Point{Lat: en.Lat, Lon: en.Lon}), 2)
		matches[i] = domain.MatchResult{
			StoreID:      en.StoreID,
			StoreName:    en.StoreName,
			Lat:          en.Lat,
			Lon:          en.Lon,
			Address:      en.Address,
			Opens:        en.Opens,
			Closes:       en.Closes,
			Price:        en.Price,
			Availability: en.Availability,
			DistanceKm:   dist,
		}
		signals[i] = Signal{Price: en.Price, DistanceKm: dist, Availability: float64(en.Availability)}
	}

	for i, n := range Normalize(signals) {
		score := w.Price*n.Price + w.Distance*n.Distance + w.Availability*(1-n.Availability)
		matches[i].Score = round(score, 3)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score < matches[j].Score
	})
	return matches
}

// round keeps v as is when scaling it would overflow; such values carry no
// fractional digits anyway.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	scaled := v * p
	if math.IsInf(scaled, 0) || math.IsNaN(scaled) {
		return v
	}
	return math.Round(scaled) / p
}
