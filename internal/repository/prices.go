// Package repository provides data access for price records and branches.
package repository

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/basketly/price-service/internal/domain/model"
)

// PriceRepository provides read access to the imported chain price feeds.
type PriceRepository struct {
	branches *mongo.Collection
	prices   *mongo.Collection
}

// NewPriceRepository creates a new price repository.
func NewPriceRepository(db *MongoDB) *PriceRepository {
	return &PriceRepository{
		branches: db.Branches,
		prices:   db.Prices,
	}
}

// BranchesInCity returns every known branch in the given city, across
// all chains. An empty slice means the city is unknown.
func (r *PriceRepository) BranchesInCity(ctx context.Context, city string) ([]model.Branch, error) {
	opts := options.Find().SetSort(bson.D{{Key: "chain", Value: 1}, {Key: "branch_id", Value: 1}})
	cursor, err := r.branches.Find(ctx, bson.M{"city": city}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var branches []model.Branch
	if err := cursor.All(ctx, &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

// SearchCity returns price records in a city whose item name contains
// the query, case-insensitively, cheapest first.
func (r *PriceRepository) SearchCity(ctx context.Context, city, query string, limit int64) ([]model.PriceRecord, error) {
	filter := bson.M{
		"city":      city,
		"item_name": bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"},
	}

	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.prices.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var records []model.PriceRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SearchBranch resolves a single cart line at one branch, cheapest
// first. An item code, when present on the line, takes precedence over
// name matching.
func (r *PriceRepository) SearchBranch(ctx context.Context, branch model.Branch, line model.CartLine) ([]model.PriceRecord, error) {
	filter := bson.M{
		"chain":     branch.Chain,
		"branch_id": branch.BranchID,
	}
	if line.ItemCode != "" {
		filter["item_code"] = line.ItemCode
	} else {
		filter["item_name"] = bson.M{"$regex": regexp.QuoteMeta(line.ItemName), "$options": "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}})

	cursor, err := r.prices.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var records []model.PriceRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// PricesByItemCode returns every record in a city sharing one item
// code, cheapest first. Used for identical-product comparison.
func (r *PriceRepository) PricesByItemCode(ctx context.Context, city, itemCode string) ([]model.PriceRecord, error) {
	filter := bson.M{
		"city":      city,
		"item_code": itemCode,
	}

	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}})

	cursor, err := r.prices.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var records []model.PriceRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Cities aggregates every city with at least one branch, with branch
// and chain counts, sorted by city name.
func (r *PriceRepository) Cities(ctx context.Context) ([]model.CityStores, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":      "$city",
			"branches": bson.M{"$sum": 1},
			"chains":   bson.M{"$addToSet": "$chain"},
		}}},
		{{Key: "$project", Value: bson.M{
			"branches": 1,
			"chains":   bson.M{"$size": "$chains"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.branches.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var cities []model.CityStores
	if err := cursor.All(ctx, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}
