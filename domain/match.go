package domain

// MatchResult is one ranked outlet for a recommendation request. Lower Score
// is better.
type MatchResult struct {
	StoreID      int64   `json:"store_id"`
	StoreName    string  `json:"store_name"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	Address      string  `json:"address"`
	Opens        string  `json:"opens"`
	Closes       string  `json:"closes"`
	Price        float64 `json:"price"`
	Availability int64   `json:"availability"`
	DistanceKm   float64 `json:"distance_km"`
	Score        float64 `json:"score"`
}

// Recommendation is the outcome of ranking every outlet that stocks the
// matched medicine. Fallback is set when the query matched no medicine name
// and the first catalog entry was used instead.
type Recommendation struct {
	Medicine Medicine      `json:"medicine"`
	Matches  []MatchResult `json:"matches"`
	Best     MatchResult   `json:"best"`
	Fallback bool          `json:"fallback"`
}
