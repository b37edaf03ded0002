package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/basketly/price-service/internal/domain/dto"
	"github.com/basketly/price-service/internal/domain/model"
	"github.com/basketly/price-service/internal/i18n"
	"github.com/basketly/price-service/internal/middleware"
	"github.com/basketly/price-service/internal/service"
)

// SavedCartsHandler provides HTTP handlers for saved shopping lists.
// All routes require JWT authentication; the owning user comes from
// the token claims, never from the request body.
type SavedCartsHandler struct {
	carts service.SavedCartService
}

// NewSavedCartsHandler creates a new saved carts handler.
func NewSavedCartsHandler(carts service.SavedCartService) *SavedCartsHandler {
	return &SavedCartsHandler{carts: carts}
}

// ListCarts handles GET /api/carts requests.
//
// @Summary      List saved shopping lists
// @Description  Returns the authenticated user's saved shopping lists, most recently updated first.
// @Tags         Carts
// @Produce      json
// @Success      200 {object} dto.SuccessResponse "Saved carts"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/carts [get]
func (h *SavedCartsHandler) ListCarts(c *gin.Context) {
	builder := NewResponseBuilder(c)

	userID, ok := authenticatedUserID(c)
	if !ok {
		builder.Error(http.StatusUnauthorized, i18n.ErrKeyUnauthorized, nil)
		return
	}

	carts, err := h.carts.List(c.Request.Context(), userID)
	if err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}
	if carts == nil {
		carts = []*model.SavedCart{}
	}

	builder.SuccessOK(carts)
}

// CreateCart handles POST /api/carts requests.
//
// @Summary      Save a shopping list
// @Description  Stores a named shopping list for the authenticated user.
// @Tags         Carts
// @Accept       json
// @Produce      json
// @Param        request body dto.SavedCartRequest true "Shopping list to save"
// @Success      201 {object} dto.SuccessResponse "Saved cart"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid shopping list"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/carts [post]
func (h *SavedCartsHandler) CreateCart(c *gin.Context) {
	builder := NewResponseBuilder(c)

	userID, ok := authenticatedUserID(c)
	if !ok {
		builder.Error(http.StatusUnauthorized, i18n.ErrKeyUnauthorized, nil)
		return
	}

	var req dto.SavedCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	cart, err := h.carts.Create(c.Request.Context(), userID, req.Name, req.City, cartLinesFromRequest(req.Items))
	if err != nil {
		h.respondCartError(builder, err)
		return
	}

	if loggingService, exists := c.Get("logging_service"); exists {
		if ls, ok := loggingService.(service.LoggingService); ok {
			middleware.AuditLog(ls, c, "cart_saved", "Shopping list saved", map[string]interface{}{
				"cart_id": cart.ID.Hex(),
				"items":   len(cart.Lines),
			})
		}
	}

	builder.SuccessCreated(cart)
}

// GetCart handles GET /api/carts/:id requests.
//
// @Summary      Get a saved shopping list
// @Description  Returns a single saved shopping list owned by the authenticated user.
// @Tags         Carts
// @Produce      json
// @Param        id path string true "Cart ID"
// @Success      200 {object} dto.SuccessResponse "Saved cart"
// @Failure      400 {object} dto.ErrorResponse "Bad request - malformed cart ID"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      404 {object} dto.ErrorResponse "Cart not found"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/carts/{id} [get]
func (h *SavedCartsHandler) GetCart(c *gin.Context) {
	builder := NewResponseBuilder(c)

	userID, ok := authenticatedUserID(c)
	if !ok {
		builder.Error(http.StatusUnauthorized, i18n.ErrKeyUnauthorized, nil)
		return
	}

	cartID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	cart, err := h.carts.Get(c.Request.Context(), userID, cartID)
	if err != nil {
		h.respondCartError(builder, err)
		return
	}

	builder.SuccessOK(cart)
}

// UpdateCart handles PUT /api/carts/:id requests.
//
// @Summary      Update a saved shopping list
// @Description  Replaces the name, city and lines of a saved shopping list owned by the authenticated user.
// @Tags         Carts
// @Accept       json
// @Produce      json
// @Param        id path string true "Cart ID"
// @Param        request body dto.SavedCartRequest true "Replacement shopping list"
// @Success      200 {object} dto.SuccessResponse "Updated cart"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid shopping list"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      404 {object} dto.ErrorResponse "Cart not found"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/carts/{id} [put]
func (h *SavedCartsHandler) UpdateCart(c *gin.Context) {
	builder := NewResponseBuilder(c)

	userID, ok := authenticatedUserID(c)
	if !ok {
		builder.Error(http.StatusUnauthorized, i18n.ErrKeyUnauthorized, nil)
		return
	}

	cartID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	var req dto.SavedCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	cart, err := h.carts.Update(c.Request.Context(), userID, cartID, req.Name, req.City, cartLinesFromRequest(req.Items))
	if err != nil {
		h.respondCartError(builder, err)
		return
	}

	builder.SuccessOK(cart)
}

// DeleteCart handles DELETE /api/carts/:id requests.
//
// @Summary      Delete a saved shopping list
// @Description  Removes a saved shopping list owned by the authenticated user.
// @Tags         Carts
// @Produce      json
// @Param        id path string true "Cart ID"
// @Success      200 {object} dto.SuccessResponse "Deletion confirmation"
// @Failure      400 {object} dto.ErrorResponse "Bad request - malformed cart ID"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      404 {object} dto.ErrorResponse "Cart not found"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/carts/{id} [delete]
func (h *SavedCartsHandler) DeleteCart(c *gin.Context) {
	builder := NewResponseBuilder(c)

	userID, ok := authenticatedUserID(c)
	if !ok {
		builder.Error(http.StatusUnauthorized, i18n.ErrKeyUnauthorized, nil)
		return
	}

	cartID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	if err := h.carts.Delete(c.Request.Context(), userID, cartID); err != nil {
		h.respondCartError(builder, err)
		return
	}

	if loggingService, exists := c.Get("logging_service"); exists {
		if ls, ok := loggingService.(service.LoggingService); ok {
			middleware.AuditLog(ls, c, "cart_deleted", "Shopping list deleted", map[string]interface{}{
				"cart_id": cartID.Hex(),
			})
		}
	}

	builder.SuccessOK(map[string]string{"message": "Cart deleted"})
}

// respondCartError maps saved cart service errors to HTTP responses.
func (h *SavedCartsHandler) respondCartError(builder *ResponseBuilder, err error) {
	switch {
	case errors.Is(err, service.ErrCartNotFound):
		builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, err)
	case errors.Is(err, service.ErrInvalidCart):
		builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationCart, err)
	default:
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
	}
}

// cartLinesFromRequest converts request items to domain cart lines.
func cartLinesFromRequest(items []dto.CartItemRequest) []model.CartLine {
	lines := make([]model.CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, model.CartLine{
			ItemName: item.ItemName,
			Quantity: item.Quantity,
			ItemCode: item.ItemCode,
		})
	}
	return lines
}

// authenticatedUserID extracts the user ID set by the JWT middleware.
func authenticatedUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return primitive.NilObjectID, false
	}
	userID, ok := value.(primitive.ObjectID)
	return userID, ok
}
