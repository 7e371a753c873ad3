package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sumanshinde/cloth-pos/internal/middleware"
	"github.com/sumanshinde/cloth-pos/internal/model"
	"github.com/sumanshinde/cloth-pos/internal/service"
	"github.com/sumanshinde/cloth-pos/pkg/response"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	inventory := router.Group("/inventory")
	{
		inventory.GET("/variants", h.ListVariants)
		inventory.POST("/variants", h.CreateVariants)
		inventory.PUT("/variants/:id", h.UpdateVariant)
		inventory.DELETE("/variants/:id", h.DeleteVariant)
		inventory.GET("/suggestions", h.ProductSuggestions)
		inventory.POST("/products", h.CreateProduct)
		inventory.GET("/categories", h.ListCategories)
		inventory.POST("/categories", h.CreateCategory)
		inventory.GET("/barcode", h.GenerateBarcode)
	}
}

// ListVariants handles retrieving the variant list for the inventory editor
// @Summary      List variants
// @Description  Lists all variants, filtered on product name, size, color or barcode
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        search  query     string  false  "Filter text"
// @Success      200     {object}  response.Response{data=[]model.Variant}
// @Failure      502     {object}  response.Response
// @Router       /api/inventory/variants [get]
func (h *InventoryHandler) ListVariants(c *gin.Context) {
	variants, err := h.inventoryService.ListVariants(c.Request.Context(), middleware.SessionID(c), c.Query("search"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, variants)
}

// CreateVariants creates one variant per size
// @Summary      Create variants
// @Description  Creates a variant for each listed size of a product/color; a partial failure is rolled back
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateVariantsRequest  true  "Create Variants Payload"
// @Success      201      {object}  response.Response{data=[]model.Variant}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/inventory/variants [post]
func (h *InventoryHandler) CreateVariants(c *gin.Context) {
	var req service.CreateVariantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	variants, err := h.inventoryService.CreateVariants(c.Request.Context(), middleware.SessionID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, variants)
}

// UpdateVariant updates a single variant
// @Summary      Update variant
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                   true  "Variant ID"
// @Param        payload  body      model.VariantRequest  true  "Variant Payload"
// @Success      200      {object}  response.Response{data=model.Variant}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/inventory/variants/{id} [put]
func (h *InventoryHandler) UpdateVariant(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid variant ID")
		return
	}

	var req model.VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	variant, err := h.inventoryService.UpdateVariant(c.Request.Context(), middleware.SessionID(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, variant)
}

// DeleteVariant removes a variant
// @Summary      Delete variant
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Variant ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/inventory/variants/{id} [delete]
func (h *InventoryHandler) DeleteVariant(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid variant ID")
		return
	}

	if err := h.inventoryService.DeleteVariant(c.Request.Context(), middleware.SessionID(c), id); err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Variant deleted successfully")
}

// ProductSuggestions lists up to ten products whose name contains q
// @Summary      Product name suggestions
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        q    query     string  false  "Partial product name"
// @Success      200  {object}  response.Response{data=[]model.Product}
// @Router       /api/inventory/suggestions [get]
func (h *InventoryHandler) ProductSuggestions(c *gin.Context) {
	products, err := h.inventoryService.ProductSuggestions(c.Request.Context(), middleware.SessionID(c), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, products)
}

// CreateProduct creates a product, or returns the existing one with the same name
// @Summary      Create product
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      model.ProductRequest  true  "Product Payload"
// @Success      201      {object}  response.Response{data=service.CreateProductResult}
// @Success      200      {object}  response.Response{data=service.CreateProductResult}
// @Failure      400      {object}  response.Response
// @Router       /api/inventory/products [post]
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var req model.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	res, err := h.inventoryService.CreateProduct(c.Request.Context(), middleware.SessionID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusCreated
	if res.Existed {
		status = http.StatusOK
	}
	response.JSON(c, status, res)
}

// ListCategories lists product categories
// @Summary      List categories
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Category}
// @Router       /api/inventory/categories [get]
func (h *InventoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.inventoryService.ListCategories(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories)
}

// CreateCategory creates a category
// @Summary      Create category
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      model.CategoryRequest  true  "Category Payload"
// @Success      201      {object}  response.Response{data=model.Category}
// @Failure      400      {object}  response.Response
// @Router       /api/inventory/categories [post]
func (h *InventoryHandler) CreateCategory(c *gin.Context) {
	var req model.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	category, err := h.inventoryService.CreateCategory(c.Request.Context(), middleware.SessionID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, category)
}

// GenerateBarcode proposes a barcode not used by any variant
// @Summary      Generate barcode
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/inventory/barcode [get]
func (h *InventoryHandler) GenerateBarcode(c *gin.Context) {
	code, err := h.inventoryService.GenerateBarcode(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"barcode": code})
}
