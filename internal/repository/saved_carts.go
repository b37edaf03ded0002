// Package repository provides saved cart data access layer.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/basketly/price-service/internal/domain/model"
)

// SavedCartRepositoryInterface defines the interface for saved cart operations.
type SavedCartRepositoryInterface interface {
	Create(ctx context.Context, cart *model.SavedCart) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.SavedCart, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.SavedCart, error)
	Update(ctx context.Context, cart *model.SavedCart) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SavedCartRepository implements SavedCartRepositoryInterface using MongoDB.
type SavedCartRepository struct {
	collection *mongo.Collection
}

// NewSavedCartRepository creates a new saved cart repository.
func NewSavedCartRepository(db *MongoDB) *SavedCartRepository {
	return &SavedCartRepository{
		collection: db.SavedCarts,
	}
}

// Create inserts a new saved cart.
func (r *SavedCartRepository) Create(ctx context.Context, cart *model.SavedCart) error {
	cart.CreatedAt = time.Now()
	cart.UpdatedAt = time.Now()
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, cart)
	return err
}

// FindByID finds a saved cart by ID.
func (r *SavedCartRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.SavedCart, error) {
	var cart model.SavedCart
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// ListByUser retrieves all saved carts owned by a user, newest first.
func (r *SavedCartRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.SavedCart, error) {
	opts := options.Find().SetSort(bson.M{"updated_at": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var carts []*model.SavedCart
	if err := cursor.All(ctx, &carts); err != nil {
		return nil, err
	}
	return carts, nil
}

// Update replaces the name, city and lines of an existing saved cart.
func (r *SavedCartRepository) Update(ctx context.Context, cart *model.SavedCart) error {
	cart.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": cart.ID},
		bson.M{"$set": bson.M{
			"name":       cart.Name,
			"city":       cart.City,
			"lines":      cart.Lines,
			"updated_at": cart.UpdatedAt,
		}},
	)
	return err
}

// Delete removes a saved cart.
func (r *SavedCartRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
