package domain

// StockingEntry is an inventory row (store, medicine, price, stock level)
// joined with the store that holds it. Availability is the stock level.
type StockingEntry struct {
	StoreID      int64   `db:"store_id"`
	StoreName    string  `db:"store_name"`
	Lat          float64 `db:"lat"`
	Lon          float64 `db:"lon"`
	Address      string  `db:"address"`
	Opens        string  `db:"opens"`
	Closes       string  `db:"closes"`
	Price        float64 `db:"price"`
	Availability int64   `db:"availability"`
}
