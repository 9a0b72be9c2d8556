package storage

import (
	"context"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"laptop-price/models"
	"laptop-price/utils"
)

const selectLaptops = `
	SELECT inches, cpu_frequency, ram, weight, touchscreen, ssd,
	       res_width, res_height, ips_panel, hdd,
	       COALESCE(company, '') AS company, price
	FROM laptops
	ORDER BY id`

// PostgresReader reads the laptop catalog from the read-only laptops table.
type PostgresReader struct {
	db *sqlx.DB
}

// NewPostgresReader opens a connection pool and waits for the server to
// answer, retrying with back-off.
func NewPostgresReader(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresReader, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, &models.DataLoadError{Source: "postgres", Err: fmt.Errorf("open: %w", err)}
	}

	if err := retry.Do(ctx, "postgres ping", db.PingContext); err != nil {
		_ = db.Close()
		return nil, &models.DataLoadError{Source: "postgres", Err: err}
	}

	return &PostgresReader{db: db}, nil
}

// ReadAll loads every row of the laptops table.
func (pr *PostgresReader) ReadAll(ctx context.Context) (*models.Dataset, error) {
	var records []*models.LaptopRecord
	if err := pr.db.SelectContext(ctx, &records, selectLaptops); err != nil {
		return nil, &models.DataLoadError{Source: "postgres:laptops", Err: err}
	}
	for i, l := range records {
		if col, ok := nonFiniteColumn(l); ok {
			return nil, &models.DataLoadError{Source: "postgres:laptops", Column: col, Row: i + 1, Err: errBadValue}
		}
	}

	return &models.Dataset{
		Source:  "postgres:laptops",
		Columns: append(models.FeatureColumns(), models.ColPrice),
		Records: records,
	}, nil
}

func (pr *PostgresReader) Close() error {
	return pr.db.Close()
}

// nonFiniteColumn names the first numeric column of l holding NaN or an infinity.
func nonFiniteColumn(l *models.LaptopRecord) (string, bool) {
	for _, col := range models.NumericColumns {
		if v, _ := l.Value(col); math.IsNaN(v) || math.IsInf(v, 0) {
			return col, true
		}
	}
	return "", false
}
