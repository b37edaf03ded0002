// Package repository provides interfaces for repository operations.
package repository

import (
	"context"

	"github.com/basketly/price-service/internal/domain/model"
)

// PriceRepositoryInterface defines the interface for price store operations.
type PriceRepositoryInterface interface {
	BranchesInCity(ctx context.Context, city string) ([]model.Branch, error)
	SearchCity(ctx context.Context, city, query string, limit int64) ([]model.PriceRecord, error)
	SearchBranch(ctx context.Context, branch model.Branch, line model.CartLine) ([]model.PriceRecord, error)
	PricesByItemCode(ctx context.Context, city, itemCode string) ([]model.PriceRecord, error)
	Cities(ctx context.Context) ([]model.CityStores, error)
}

// LogsRepositoryInterface defines the interface for logs repository operations.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *LogEntryDocument) error
	CreateMany(ctx context.Context, entries []*LogEntryDocument) error
	Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error)
	Count(ctx context.Context, opts LogQueryOptions) (int64, error)
}
