// Package seed loads the medicine, store and inventory catalogs from CSV.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Catalog file names expected inside the seed directory.
const (
	MedicinesFile = "medicines.csv"
	StoresFile    = "stores.csv"
	InventoryFile = "inventory.csv"
)

var ErrMissingColumn = errors.New("missing csv column")

// Result counts the rows inserted per table.
type Result struct {
	Medicines int
	Stores    int
	Inventory int
	Skipped   bool
}

type table struct {
	file    string
	name    string
	columns []string
	convert func(values []string) ([]any, error)
}

var tables = []table{
	{
		file:    MedicinesFile,
		name:    "medicines",
		columns: []string{"brand_name", "generic_name", "strength", "form", "atc_code"},
		convert: func(v []string) ([]any, error) {
			if v[0] == "" && v[1] == "" {
				return nil, errors.New("medicine needs a brand or generic name")
			}
			return []any{nullIfEmpty(v[0]), nullIfEmpty(v[1]), v[2], v[3], v[4]}, nil
		},
	},
	{
		file:    StoresFile,
		name:    "stores",
		columns: []string{"name", "lat", "lon", "address", "opens", "closes"},
		convert: func(v []string) ([]any, error) {
			lat, err := strconv.ParseFloat(v[1], 64)
			if err != nil {
				return nil, fmt.Errorf("lat: %w", err)
			}
			lon, err := strconv.ParseFloat(v[2], 64)
			if err != nil {
				return nil, fmt.Errorf("lon: %w", err)
			}
			return []any{v[0], lat, lon, v[3], v[4], v[5]}, nil
		},
	},
	{
		file:    InventoryFile,
		name:    "inventory",
		columns: []string{"store_id", "medicine_id", "price", "stock_level"},
		convert: func(v []string) ([]any, error) {
			storeID, err := strconv.ParseInt(v[0], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("store_id: %w", err)
			}
			medicineID, err := strconv.ParseInt(v[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("medicine_id: %w", err)
			}
			price, err := strconv.ParseFloat(v[2], 64)
			if err != nil || price < 0 {
				return nil, fmt.Errorf("price %q must be a non-negative number", v[2])
			}
			stock, err := strconv.ParseInt(v[3], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("stock_level: %w", err)
			}
			return []any{storeID, medicineID, price, stock}, nil
		},
	},
}

// Load ingests medicines.csv, stores.csv and inventory.csv from dir in a
// single transaction. It does nothing when the medicines table already has
// rows. Malformed rows are logged and skipped; a missing file or header
// rolls the whole load back.
func Load(ctx context.Context, db *sqlx.DB, dir string, logger *zap.Logger) (Result, error) {
	var existing int
	if err := db.GetContext(ctx, &existing, `SELECT COUNT(*) FROM medicines`); err != nil {
		return Result{}, fmt.Errorf("count medicines: %w", err)
	}
	if existing > 0 {
		logger.Info("catalog already seeded", zap.Int("medicines", existing))
		return Result{Skipped: true}, nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	var res Result
	counts := []*int{&res.Medicines, &res.Stores, &res.Inventory}
	for i, t := range tables {
		n, err := loadTable(ctx, tx, filepath.Join(dir, t.file), t, logger)
		if err != nil {
			return Result{}, err
		}
		*counts[i] = n
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("commit seed: %w", err)
	}
	for i, t := range tables {
		logger.Info("seeded table", zap.String("table", t.name), zap.Int("rows", *counts[i]))
	}
	return res, nil
}

func loadTable(ctx context.Context, tx *sqlx.Tx, path string, t table, logger *zap.Logger) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("seed %s: %w", t.name, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read %s header: %w", t.file, err)
	}
	index, err := columnIndex(header, t.columns)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", t.file, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	stmt, err := tx.PreparexContext(ctx, tx.Rebind(fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		t.name, strings.Join(t.columns, ", "), placeholders)))
	if err != nil {
		return 0, fmt.Errorf("prepare %s insert: %w", t.name, err)
	}
	defer stmt.Close()

	rows := 0
	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("unable to read csv row", zap.String("file", t.file), zap.Int("line", line), zap.Error(err))
			continue
		}
		values := make([]string, len(t.columns))
		for i, col := range index {
			if col < len(record) {
				values[i] = strings.TrimSpace(record[col])
			}
		}
		args, err := t.convert(values)
		if err != nil {
			logger.Warn("skipping csv row", zap.String("file", t.file), zap.Int("line", line), zap.Error(err))
			continue
		}
		rowErr, err := insertRow(ctx, tx, stmt, args)
		if err != nil {
			return 0, fmt.Errorf("insert %s row %d: %w", t.name, line, err)
		}
		if rowErr != nil {
			logger.Warn("unable to insert row", zap.String("table", t.name), zap.Int("line", line), zap.Error(rowErr))
			continue
		}
		rows++
	}
	return rows, nil
}

// insertRow runs stmt inside a savepoint so a rejected row leaves the
// transaction usable. PostgreSQL aborts the whole transaction otherwise.
// A rejected row is rolled back and returned as rowErr.
func insertRow(ctx context.Context, tx *sqlx.Tx, stmt *sqlx.Stmt, args []any) (rowErr, err error) {
	if _, err := tx.ExecContext(ctx, `SAVEPOINT seed_row`); err != nil {
		return nil, fmt.Errorf("savepoint: %w", err)
	}
	if _, rowErr := stmt.ExecContext(ctx, args...); rowErr != nil {
		if _, err := tx.ExecContext(ctx, `ROLLBACK TO SAVEPOINT seed_row`); err != nil {
			return nil, fmt.Errorf("rollback to savepoint: %w", err)
		}
		return rowErr, nil
	}
	if _, err := tx.ExecContext(ctx, `RELEASE SAVEPOINT seed_row`); err != nil {
		return nil, fmt.Errorf("release savepoint: %w", err)
	}
	return nil, nil
}

func columnIndex(header, columns []string) ([]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	index := make([]int, len(columns))
	for i, col := range columns {
		pos, ok := positions[col]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
		index[i] = pos
	}
	return index, nil
}

func nullIfEmpty(val string) *string {
	if val == "" {
		return nil
	}
	return &val
}
