package storage

import (
	"context"

	"laptop-price/models"
)

// CatalogReader is the interface any catalog source must satisfy.
type CatalogReader interface {
	ReadAll(ctx context.Context) (*models.Dataset, error)
	Close() error
}
