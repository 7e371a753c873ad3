package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sumanshinde/cloth-pos/internal/middleware"
	"github.com/sumanshinde/cloth-pos/internal/service"
	"github.com/sumanshinde/cloth-pos/pkg/response"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

func (h *CheckoutHandler) RegisterRoutes(router *gin.RouterGroup) {
	catalog := router.Group("/catalog")
	{
		catalog.POST("/refresh", h.RefreshCatalog)
		catalog.GET("/search", h.Search)
		catalog.GET("/filters", h.Filters)
	}

	cartGroup := router.Group("/cart")
	{
		cartGroup.GET("", h.GetCart)
		cartGroup.DELETE("", h.ClearCart)
		cartGroup.POST("/scan", h.Scan)
		cartGroup.POST("/items", h.AddItem)
		cartGroup.PUT("/items/:variantId", h.SetQuantity)
		cartGroup.POST("/checkout", h.Checkout)
	}
}

// RefreshCatalog reloads the session's product/variant snapshot
// @Summary      Refresh catalog
// @Description  Reloads products and variants from the backend into the session snapshot
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.CatalogSummary}
// @Failure      401  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /api/catalog/refresh [post]
func (h *CheckoutHandler) RefreshCatalog(c *gin.Context) {
	summary, err := h.checkoutService.RefreshCatalog(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// Search returns suggestions for the search box
// @Summary      Search catalog
// @Description  Matches barcode or product name, optionally filtered by color and size; at most 50 results
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Param        q      query     string  false  "Barcode or product name"
// @Param        color  query     string  false  "Exact color"
// @Param        size   query     string  false  "Exact size"
// @Success      200    {object}  response.Response{data=[]search.Suggestion}
// @Failure      401    {object}  response.Response
// @Router       /api/catalog/search [get]
func (h *CheckoutHandler) Search(c *gin.Context) {
	suggestions, err := h.checkoutService.Search(c.Request.Context(), middleware.SessionID(c), c.Query("q"), c.Query("color"), c.Query("size"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, suggestions)
}

// Filters lists the color and size choices
// @Summary      Filter options
// @Description  Distinct colors and sizes present in the catalog snapshot
// @Tags         catalog
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=search.FilterOptions}
// @Router       /api/catalog/filters [get]
func (h *CheckoutHandler) Filters(c *gin.Context) {
	opts, err := h.checkoutService.Filters(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, opts)
}

// GetCart returns the current cart
// @Summary      Get cart
// @Tags         cart
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.CartView}
// @Router       /api/cart [get]
func (h *CheckoutHandler) GetCart(c *gin.Context) {
	view, err := h.checkoutService.GetCart(middleware.SessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Scan adds the variant matching a scanned barcode or typed name
// @Summary      Scan item
// @Description  Adds the exact match from the catalog, falling back to a backend barcode lookup
// @Tags         cart
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ScanRequest  true  "Scan Payload"
// @Success      200      {object}  response.Response{data=service.CartView}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/cart/scan [post]
func (h *CheckoutHandler) Scan(c *gin.Context) {
	var req service.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	view, err := h.checkoutService.Scan(c.Request.Context(), middleware.SessionID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// AddItem adds one unit of a variant picked from the suggestions
// @Summary      Add item
// @Tags         cart
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AddItemRequest  true  "Add Item Payload"
// @Success      200      {object}  response.Response{data=service.CartView}
// @Failure      404      {object}  response.Response
// @Router       /api/cart/items [post]
func (h *CheckoutHandler) AddItem(c *gin.Context) {
	var req service.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	view, err := h.checkoutService.AddItem(c.Request.Context(), middleware.SessionID(c), req.VariantID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// SetQuantity changes a line's quantity; zero removes the line
// @Summary      Set line quantity
// @Tags         cart
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        variantId  path      int                         true  "Variant ID"
// @Param        payload    body      service.SetQuantityRequest  true  "Quantity Payload"
// @Success      200        {object}  response.Response{data=service.CartView}
// @Failure      400        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /api/cart/items/{variantId} [put]
func (h *CheckoutHandler) SetQuantity(c *gin.Context) {
	variantID, err := strconv.ParseInt(c.Param("variantId"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid variant ID")
		return
	}

	var req service.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	view, err := h.checkoutService.SetQuantity(middleware.SessionID(c), variantID, *req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// ClearCart empties the cart
// @Summary      Clear cart
// @Tags         cart
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.CartView}
// @Router       /api/cart [delete]
func (h *CheckoutHandler) ClearCart(c *gin.Context) {
	view, err := h.checkoutService.ClearCart(middleware.SessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Checkout submits the cart as a sale
// @Summary      Checkout
// @Description  Creates the sale on the backend. On failure the cart is kept and a retry reuses the idempotency key.
// @Tags         cart
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CheckoutRequest  true  "Checkout Payload"
// @Success      201      {object}  response.Response{data=service.CheckoutResult}
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Router       /api/cart/checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	// an empty body checks out a walk-in customer paying cash
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	res, err := h.checkoutService.Checkout(c.Request.Context(), middleware.SessionID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, res)
}
