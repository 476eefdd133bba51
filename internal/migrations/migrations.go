package migrations

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS medicines (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            brand_name TEXT,
            generic_name TEXT,
            strength TEXT,
            form TEXT,
            atc_code TEXT
        );`,
	`CREATE TABLE IF NOT EXISTS stores (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            lat REAL NOT NULL,
            lon REAL NOT NULL,
            address TEXT,
            opens TEXT,
            closes TEXT
        );`,
	`CREATE TABLE IF NOT EXISTS inventory (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            store_id INTEGER NOT NULL,
            medicine_id INTEGER NOT NULL,
            price REAL NOT NULL,
            stock_level INTEGER NOT NULL DEFAULT 0,
            FOREIGN KEY(store_id) REFERENCES stores(id),
            FOREIGN KEY(medicine_id) REFERENCES medicines(id)
        );`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_medicine ON inventory(medicine_id);`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS medicines (
            id SERIAL PRIMARY KEY,
            brand_name TEXT,
            generic_name TEXT,
            strength TEXT,
            form TEXT,
            atc_code TEXT
        );`,
	`CREATE TABLE IF NOT EXISTS stores (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            lat DOUBLE PRECISION NOT NULL,
            lon DOUBLE PRECISION NOT NULL,
            address TEXT,
            opens TEXT,
            closes TEXT
        );`,
	`CREATE TABLE IF NOT EXISTS inventory (
            id SERIAL PRIMARY KEY,
            store_id INTEGER NOT NULL REFERENCES stores(id),
            medicine_id INTEGER NOT NULL REFERENCES medicines(id),
            price DOUBLE PRECISION NOT NULL,
            stock_level INTEGER NOT NULL DEFAULT 0
        );`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_medicine ON inventory(medicine_id);`,
}

// Run creates the medicines, stores and inventory tables.
func Run(db *sqlx.DB) error {
	schema := sqliteSchema
	if strings.Contains(db.DriverName(), "pgx") || db.DriverName() == "postgres" {
		schema = postgresSchema
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
