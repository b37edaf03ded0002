// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import "strings"

// CartItemRequest is one shopping list line in a cheapest-cart request.
type CartItemRequest struct {
	// ItemName is the free-text product name to look for. Optional when
	// ItemCode identifies the line.
	ItemName string `json:"item_name,omitempty" example:"חלב 3%"`
	// Quantity is how many units the shopper wants. Must be at least 1.
	Quantity int `json:"quantity" binding:"required,gt=0" example:"2" minimum:"1"`
	// ItemCode is an optional barcode; exact code matches take
	// precedence over name matching.
	ItemCode string `json:"item_code,omitempty" example:"7290000066318"`
} // @name CartItemRequest

// CheapestCartRequest represents the JSON request body for the
// cheapest-cart endpoint.
//
// @Description Request to find the branch with the lowest total price for a shopping list
// @Example {"city": "תל אביב", "items": [{"item_name": "חלב", "quantity": 2}]}
type CheapestCartRequest struct {
	// City is the city to compare branches in.
	City string `json:"city" binding:"required" example:"תל אביב"`
	// Items is the shopping list. Must contain at least one line.
	Items []CartItemRequest `json:"items" binding:"required,min=1,dive"`
} // @name CheapestCartRequest

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

var (
	// ErrEmptyCart is returned when the items list is empty.
	ErrEmptyCart = &ValidationError{
		Field:   "items",
		Message: "cart must contain at least one item",
	}
	// ErrInvalidQuantity is returned when a line quantity is not positive.
	ErrInvalidQuantity = &ValidationError{
		Field:   "items.quantity",
		Message: "must be a positive integer",
	}
	// ErrEmptyItemName is returned when a line carries neither an item
	// name nor an item code.
	ErrEmptyItemName = &ValidationError{
		Field:   "items.item_name",
		Message: "must not be empty unless item_code is set",
	}
	// ErrEmptyCity is returned when the city is missing.
	ErrEmptyCity = &ValidationError{
		Field:   "city",
		Message: "must not be empty",
	}
)

// Validate performs custom validation on the request.
// Returns an error if validation fails, nil otherwise.
func (r *CheapestCartRequest) Validate() error {
	if strings.TrimSpace(r.City) == "" {
		return ErrEmptyCity
	}
	if len(r.Items) == 0 {
		return ErrEmptyCart
	}
	for _, item := range r.Items {
		if strings.TrimSpace(item.ItemName) == "" && strings.TrimSpace(item.ItemCode) == "" {
			return ErrEmptyItemName
		}
		if item.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// SavedCartRequest represents the JSON request body for creating or
// updating a saved shopping list.
type SavedCartRequest struct {
	// Name labels the list ("weekly groceries").
	Name string `json:"name" binding:"required,min=1,max=100" example:"weekly groceries"`
	// City the cart is usually compared in (optional).
	City string `json:"city,omitempty" example:"חיפה"`
	// Items is the ordered shopping list.
	Items []CartItemRequest `json:"items" binding:"required,min=1,dive"`
} // @name SavedCartRequest
