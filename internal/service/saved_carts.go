// Package service provides saved shopping list management.
package service

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/basketly/price-service/internal/domain/model"
	"github.com/basketly/price-service/internal/repository"
)

var (
	// ErrCartNotFound is returned when a saved cart does not exist or
	// is owned by another user. Ownership failures are reported as
	// not-found so list IDs are never confirmed across accounts.
	ErrCartNotFound = errors.New("saved cart not found")

	// ErrInvalidCart is returned when a saved cart payload fails validation.
	ErrInvalidCart = errors.New("invalid saved cart")
)

// SavedCartService manages named shopping lists owned by users.
type SavedCartService interface {
	Create(ctx context.Context, userID primitive.ObjectID, name, city string, lines []model.CartLine) (*model.SavedCart, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]*model.SavedCart, error)
	Get(ctx context.Context, userID, cartID primitive.ObjectID) (*model.SavedCart, error)
	Update(ctx context.Context, userID, cartID primitive.ObjectID, name, city string, lines []model.CartLine) (*model.SavedCart, error)
	Delete(ctx context.Context, userID, cartID primitive.ObjectID) error
}

// SavedCartServiceImpl implements SavedCartService on top of the
// saved cart repository.
type SavedCartServiceImpl struct {
	carts repository.SavedCartRepositoryInterface
}

// NewSavedCartService creates a new saved cart service.
func NewSavedCartService(carts repository.SavedCartRepositoryInterface) *SavedCartServiceImpl {
	return &SavedCartServiceImpl{carts: carts}
}

// Create stores a new named shopping list for the user.
func (s *SavedCartServiceImpl) Create(ctx context.Context, userID primitive.ObjectID, name, city string, lines []model.CartLine) (*model.SavedCart, error) {
	if err := validateSavedCart(name, lines); err != nil {
		return nil, err
	}

	cart := &model.SavedCart{
		UserID: userID,
		Name:   strings.TrimSpace(name),
		City:   strings.TrimSpace(city),
		Lines:  lines,
	}
	if err := s.carts.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// List returns the user's saved carts, most recently updated first.
func (s *SavedCartServiceImpl) List(ctx context.Context, userID primitive.ObjectID) ([]*model.SavedCart, error) {
	return s.carts.ListByUser(ctx, userID)
}

// Get returns a single saved cart owned by the user.
func (s *SavedCartServiceImpl) Get(ctx context.Context, userID, cartID primitive.ObjectID) (*model.SavedCart, error) {
	return s.ownedCart(ctx, userID, cartID)
}

// Update replaces the name, city and lines of an existing cart.
func (s *SavedCartServiceImpl) Update(ctx context.Context, userID, cartID primitive.ObjectID, name, city string, lines []model.CartLine) (*model.SavedCart, error) {
	if err := validateSavedCart(name, lines); err != nil {
		return nil, err
	}

	cart, err := s.ownedCart(ctx, userID, cartID)
	if err != nil {
		return nil, err
	}

	cart.Name = strings.TrimSpace(name)
	cart.City = strings.TrimSpace(city)
	cart.Lines = lines
	if err := s.carts.Update(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Delete removes a saved cart owned by the user.
func (s *SavedCartServiceImpl) Delete(ctx context.Context, userID, cartID primitive.ObjectID) error {
	if _, err := s.ownedCart(ctx, userID, cartID); err != nil {
		return err
	}
	return s.carts.Delete(ctx, cartID)
}

// ownedCart fetches a cart and checks ownership.
func (s *SavedCartServiceImpl) ownedCart(ctx context.Context, userID, cartID primitive.ObjectID) (*model.SavedCart, error) {
	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.UserID != userID {
		return nil, ErrCartNotFound
	}
	return cart, nil
}

// validateSavedCart checks the parts of a cart payload that binding
// cannot express.
func validateSavedCart(name string, lines []model.CartLine) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidCart
	}
	if len(lines) == 0 {
		return ErrInvalidCart
	}
	for _, line := range lines {
		if strings.TrimSpace(line.ItemName) == "" && strings.TrimSpace(line.ItemCode) == "" {
			return ErrInvalidCart
		}
		if line.Quantity < 1 {
			return ErrInvalidCart
		}
	}
	return nil
}
