package domain

// Store is a retail outlet stocking medicines. Opens and Closes are passed
// through to clients untouched.
type Store struct {
	ID      int64   `db:"id" json:"id"`
	Name    string  `db:"name" json:"name"`
	Lat     float64 `db:"lat" json:"lat"`
	Lon     float64 `db:"lon" json:"lon"`
	Address string  `db:"address" json:"address"`
	Opens   string  `db:"opens" json:"opens"`
	Closes  string  `db:"closes" json:"closes"`
}
