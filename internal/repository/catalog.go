// Package repository reads medicines, stores and inventory through sqlx.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"medlocator/m/domain"
)

const medicineColumns = `id, COALESCE(brand_name, '') AS brand_name, COALESCE(generic_name, '') AS generic_name,
        COALESCE(strength, '') AS strength, COALESCE(form, '') AS form, COALESCE(atc_code, '') AS atc_code`

// Catalog implements recommend.Catalog on top of a SQL database.
type Catalog struct {
	db *sqlx.DB
}

func NewCatalog(db *sqlx.DB) *Catalog {
	return &Catalog{db: db}
}

// ListMedicines returns every medicine in id order.
func (c *Catalog) ListMedicines(ctx context.Context) ([]domain.Medicine, error) {
	var medicines []domain.Medicine
	if err := c.db.SelectContext(ctx, &medicines, `SELECT `+medicineColumns+` FROM medicines ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	return medicines, nil
}

// ListStockingEntries returns the inventory rows for medicineID joined with
// their stores, in inventory insertion order.
func (c *Catalog) ListStockingEntries(ctx context.Context, medicineID int64) ([]domain.StockingEntry, error) {
	query := c.db.Rebind(`SELECT s.id AS store_id, s.name AS store_name, s.lat, s.lon,
                COALESCE(s.address, '') AS address, COALESCE(s.opens, '') AS opens, COALESCE(s.closes, '') AS closes,
                i.price, i.stock_level AS availability
                FROM inventory i
                JOIN stores s ON s.id = i.store_id
                WHERE i.medicine_id = ?
                ORDER BY i.id`)
	var entries []domain.StockingEntry
	if err := c.db.SelectContext(ctx, &entries, query, medicineID); err != nil {
		return nil, fmt.Errorf("list stocking entries: %w", err)
	}
	return entries, nil
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchMedicines returns up to limit medicines whose brand or generic name
// contains query, ignoring case. An empty query lists the catalog.
func (c *Catalog) SearchMedicines(ctx context.Context, query string, limit int) ([]domain.Medicine, error) {
	var (
		medicines []domain.Medicine
		err       error
	)
	query = strings.TrimSpace(query)
	if query == "" {
		err = c.db.SelectContext(ctx, &medicines, c.db.Rebind(`SELECT `+medicineColumns+` FROM medicines ORDER BY brand_name LIMIT ?`), limit)
	} else {
		like := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
		err = c.db.SelectContext(ctx, &medicines, c.db.Rebind(`SELECT `+medicineColumns+` FROM medicines
                WHERE LOWER(brand_name) LIKE ? ESCAPE '\' OR LOWER(generic_name) LIKE ? ESCAPE '\'
                ORDER BY brand_name LIMIT ?`), like, like, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("search medicines: %w", err)
	}
	return medicines, nil
}

// ListStores returns every store in id order.
func (c *Catalog) ListStores(ctx context.Context) ([]domain.Store, error) {
	var stores []domain.Store
	err := c.db.SelectContext(ctx, &stores, `SELECT id, name, lat, lon, COALESCE(address, '') AS address,
                COALESCE(opens, '') AS opens, COALESCE(closes, '') AS closes
                FROM stores ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	return stores, nil
}

// CountMedicines reports how many medicines are stored.
func (c *Catalog) CountMedicines(ctx context.Context) (int, error) {
	var n int
	if err := c.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM medicines`); err != nil {
		return 0, fmt.Errorf("count medicines: %w", err)
	}
	return n, nil
}
