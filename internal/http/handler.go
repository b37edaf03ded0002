package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/basketly/price-service/internal/domain/dto"
	"github.com/basketly/price-service/internal/domain/model"
	"github.com/basketly/price-service/internal/i18n"
	"github.com/basketly/price-service/internal/middleware"
	"github.com/basketly/price-service/internal/service"
)

// Handler provides HTTP handlers for price search and cart comparison routes.
type Handler struct {
	search service.SearchBalancer
	cart   service.CartOptimizer
}

// NewHandler creates a new Handler instance.
func NewHandler(search service.SearchBalancer, cart service.CartOptimizer) *Handler {
	return &Handler{
		search: search,
		cart:   cart,
	}
}

// SearchPrices handles GET /api/prices/search requests.
//
// @Summary      Search prices in a city
// @Description  Returns price records matching a free-text term across every chain serving the city. Results are merged round-robin across chains so no single chain dominates the top of the list.
// @Tags         Prices
// @Produce      json
// @Param        q query string true "Search term" example("חלב")
// @Param        city query string true "City to search in" example("תל אביב")
// @Success      200 {object} dto.SuccessResponse "Matching price records"
// @Failure      400 {object} dto.ErrorResponse "Bad request - missing term or city"
// @Failure      404 {object} dto.ErrorResponse "City not served by any branch"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      503 {object} dto.ErrorResponse "Price store unavailable"
// @Router       /api/prices/search [get]
func (h *Handler) SearchPrices(c *gin.Context) {
	builder := NewResponseBuilder(c)

	term := c.Query("q")
	city := c.Query("city")

	records, err := h.search.Search(c.Request.Context(), term, city)
	if err != nil {
		h.respondSearchError(builder, err)
		return
	}

	h.auditSearch(c, "search", term, city, len(records))
	builder.SuccessOK(records)
}

// GroupedProducts handles GET /api/prices/products requests.
//
// @Summary      Search products grouped by item code
// @Description  Returns search results grouped into products by shared item code. Products priced by two or more chains carry a cross-chain comparison and a unit price parsed from the cheapest record's name. Records without a code stay standalone.
// @Tags         Prices
// @Produce      json
// @Param        q query string true "Search term" example("חלב")
// @Param        city query string true "City to search in" example("תל אביב")
// @Success      200 {object} dto.SuccessResponse "Grouped products"
// @Failure      400 {object} dto.ErrorResponse "Bad request - missing term or city"
// @Failure      404 {object} dto.ErrorResponse "City not served by any branch"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      503 {object} dto.ErrorResponse "Price store unavailable"
// @Router       /api/prices/products [get]
func (h *Handler) GroupedProducts(c *gin.Context) {
	builder := NewResponseBuilder(c)

	term := c.Query("q")
	city := c.Query("city")

	products, err := h.search.Products(c.Request.Context(), term, city)
	if err != nil {
		h.respondSearchError(builder, err)
		return
	}

	h.auditSearch(c, "search_products", term, city, len(products))
	builder.SuccessOK(products)
}

// IdenticalProducts handles GET /api/prices/identical requests.
//
// @Summary      Find identical products priced by multiple chains
// @Description  Returns only products carried by two or more chains, ordered by potential savings, best deal first. The limit query parameter caps the list.
// @Tags         Prices
// @Produce      json
// @Param        q query string true "Search term" example("קוטג")
// @Param        city query string true "City to search in" example("תל אביב")
// @Param        limit query int false "Maximum products to return" example(10)
// @Success      200 {object} dto.SuccessResponse "Cross-chain products, best savings first"
// @Failure      400 {object} dto.ErrorResponse "Bad request - missing term or city"
// @Failure      404 {object} dto.ErrorResponse "City not served by any branch"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      503 {object} dto.ErrorResponse "Price store unavailable"
// @Router       /api/prices/identical [get]
func (h *Handler) IdenticalProducts(c *gin.Context) {
	builder := NewResponseBuilder(c)

	term := c.Query("q")
	city := c.Query("city")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationSearch,
				&model.InvalidInputError{Field: "limit", Reason: "must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	products, err := h.search.IdenticalProducts(c.Request.Context(), term, city, limit)
	if err != nil {
		h.respondSearchError(builder, err)
		return
	}

	h.auditSearch(c, "search_identical", term, city, len(products))
	builder.SuccessOK(products)
}

// ItemPrices handles GET /api/prices/item/:code requests.
//
// @Summary      Look up one product by item code
// @Description  Returns the product identified by an item code in a city, every chain's prices for it, and a cross-chain comparison when more than one chain carries it.
// @Tags         Prices
// @Produce      json
// @Param        code path string true "Item code" example("7290000066318")
// @Param        city query string true "City to look in" example("תל אביב")
// @Success      200 {object} dto.SuccessResponse "Product with per-chain prices"
// @Failure      400 {object} dto.ErrorResponse "Bad request - missing code or city"
// @Failure      404 {object} dto.ErrorResponse "City not served, or no branch prices the code"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      503 {object} dto.ErrorResponse "Price store unavailable"
// @Router       /api/prices/item/{code} [get]
func (h *Handler) ItemPrices(c *gin.Context) {
	builder := NewResponseBuilder(c)

	code := c.Param("code")
	city := c.Query("city")

	product, err := h.search.ProductByCode(c.Request.Context(), city, code)
	if err != nil {
		h.respondSearchError(builder, err)
		return
	}

	h.auditSearch(c, "item_lookup", code, city, len(product.Prices))
	builder.SuccessOK(product)
}

// Cities handles GET /api/prices/cities requests.
//
// @Summary      List served cities
// @Description  Lists every city served by at least one branch, with branch and chain counts.
// @Tags         Prices
// @Produce      json
// @Success      200 {object} dto.SuccessResponse "Cities with branch counts"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      503 {object} dto.ErrorResponse "Price store unavailable"
// @Router       /api/prices/cities [get]
func (h *Handler) Cities(c *gin.Context) {
	builder := NewResponseBuilder(c)

	cities, err := h.search.Cities(c.Request.Context())
	if err != nil {
		h.respondSearchError(builder, err)
		return
	}

	builder.SuccessOK(cities)
}

// CheapestCart handles POST /api/prices/cheapest-cart requests.
//
// @Summary      Find the cheapest branch for a shopping list
// @Description  Resolves every cart line at every branch in the city and returns the branch where the full list costs the least. Branches missing any line are excluded; a partial cart is never substituted for a complete one.
// @Tags         Prices
// @Accept       json
// @Produce      json
// @Param        request body dto.CheapestCartRequest true "Shopping list and city"
// @Success      200 {object} dto.SuccessResponse "Cheapest branch with per-line prices"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid shopping list"
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      404 {object} dto.ErrorResponse "City not served, or no branch carries the full list"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Failure      503 {object} dto.ErrorResponse "Price store unavailable"
// @Security     BearerAuth
// @Router       /api/prices/cheapest-cart [post]
func (h *Handler) CheapestCart(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var req dto.CheapestCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	if err := req.Validate(); err != nil {
		if _, ok := err.(*dto.ValidationError); ok {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationCart, err)
		} else {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		}
		return
	}

	lines := make([]model.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, model.CartLine{
			ItemName: item.ItemName,
			Quantity: item.Quantity,
			ItemCode: item.ItemCode,
		})
	}

	start := time.Now()
	result, err := h.cart.CheapestCart(c.Request.Context(), req.City, lines)
	if err != nil {
		h.respondCartError(builder, err)
		return
	}

	if loggingService, exists := c.Get("logging_service"); exists {
		if ls, ok := loggingService.(service.LoggingService); ok {
			middleware.AuditLog(ls, c, "cheapest_cart", "Cheapest cart computed", map[string]interface{}{
				"items":             len(lines),
				"city":              req.City,
				"branches_compared": result.BranchesCompared,
				"duration_ms":       time.Since(start).Milliseconds(),
			})
		}
	}

	builder.SuccessOK(result)
}

// respondSearchError maps a domain error from the search path to an
// HTTP response.
func (h *Handler) respondSearchError(builder *ResponseBuilder, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationSearch, err)
	case errors.Is(err, model.ErrCityNotFound):
		builder.ErrorWithDetails(http.StatusNotFound, dto.ErrCodeCityNotFound, i18n.ErrKeyCityNotFound, nil, err)
	case errors.Is(err, model.ErrProductNotFound):
		builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, err)
	case errors.Is(err, model.ErrStoreUnavailable):
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyStoreUnavailable, err)
	default:
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
	}
}

// respondCartError maps a domain error from the cart path to an HTTP
// response. A no-complete-match error carries per-branch resolution
// counts in the details so a caller can tell "nothing fits" apart from
// "merely not cheapest".
func (h *Handler) respondCartError(builder *ResponseBuilder, err error) {
	var noMatch *model.NoCompleteMatchError
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationCart, err)
	case errors.Is(err, model.ErrCityNotFound):
		builder.ErrorWithDetails(http.StatusNotFound, dto.ErrCodeCityNotFound, i18n.ErrKeyCityNotFound, nil, err)
	case errors.As(err, &noMatch):
		details := make(map[string]string, len(noMatch.ResolvedPerBranch)+1)
		details["required_items"] = strconv.Itoa(noMatch.Required)
		for branch, resolved := range noMatch.ResolvedPerBranch {
			details[branch] = strconv.Itoa(resolved)
		}
		builder.ErrorWithDetails(http.StatusNotFound, dto.ErrCodeNoCompleteMatch, i18n.ErrKeyNoCompleteMatch, details, err)
	case errors.Is(err, model.ErrStoreUnavailable):
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyStoreUnavailable, err)
	default:
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
	}
}

// auditSearch records a search action in the audit trail (async).
func (h *Handler) auditSearch(c *gin.Context, actionType, term, city string, results int) {
	loggingService, exists := c.Get("logging_service")
	if !exists {
		return
	}
	ls, ok := loggingService.(service.LoggingService)
	if !ok {
		return
	}
	middleware.AuditLog(ls, c, actionType, "Price search executed", map[string]interface{}{
		"term":    term,
		"city":    city,
		"results": results,
	})
}
