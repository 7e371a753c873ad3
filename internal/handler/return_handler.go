package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sumanshinde/cloth-pos/internal/middleware"
	"github.com/sumanshinde/cloth-pos/internal/service"
	"github.com/sumanshinde/cloth-pos/pkg/response"
)

type ReturnHandler struct {
	returnService service.ReturnService
}

func NewReturnHandler(returnService service.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

func (h *ReturnHandler) RegisterRoutes(router *gin.RouterGroup) {
	draft := router.Group("/returns/draft")
	{
		draft.POST("", h.StartDraft)
		draft.GET("", h.GetDraft)
		draft.DELETE("", h.Discard)
		draft.PUT("/items/:saleItemId", h.ProposeItem)
		draft.POST("/submit", h.Submit)
	}
}

// StartDraft opens a return against a sale
// @Summary      Start return
// @Description  Loads the sale and the quantities already returned, and opens a draft
// @Tags         returns
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.StartReturnRequest  true  "Start Return Payload"
// @Success      201      {object}  response.Response{data=service.DraftView}
// @Failure      404      {object}  response.Response
// @Router       /api/returns/draft [post]
func (h *ReturnHandler) StartDraft(c *gin.Context) {
	var req service.StartReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	view, err := h.returnService.StartDraft(c.Request.Context(), middleware.SessionID(c), req.SaleID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, view)
}

// GetDraft returns the return in progress
// @Summary      Get return draft
// @Tags         returns
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.DraftView}
// @Failure      404  {object}  response.Response
// @Router       /api/returns/draft [get]
func (h *ReturnHandler) GetDraft(c *gin.Context) {
	view, err := h.returnService.GetDraft(middleware.SessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// ProposeItem sets the quantity being returned for one sale item
// @Summary      Propose return quantity
// @Tags         returns
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        saleItemId  path      int                           true  "Sale Item ID"
// @Param        payload     body      service.ProposeReturnRequest  true  "Quantity Payload"
// @Success      200         {object}  response.Response{data=service.DraftView}
// @Failure      400         {object}  response.Response
// @Failure      422         {object}  response.Response
// @Router       /api/returns/draft/items/{saleItemId} [put]
func (h *ReturnHandler) ProposeItem(c *gin.Context) {
	saleItemID, err := strconv.ParseInt(c.Param("saleItemId"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid sale item ID")
		return
	}

	var req service.ProposeReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	view, err := h.returnService.ProposeItem(middleware.SessionID(c), saleItemID, *req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Submit sends the return to the backend
// @Summary      Submit return
// @Description  Creates the return; a failed submission keeps the selections for a retry with the same idempotency key
// @Tags         returns
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SubmitReturnRequest  true  "Submit Return Payload"
// @Success      201      {object}  response.Response{data=service.DraftView}
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Failure      502      {object}  response.Response
// @Router       /api/returns/draft/submit [post]
func (h *ReturnHandler) Submit(c *gin.Context) {
	var req service.SubmitReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	view, err := h.returnService.Submit(c.Request.Context(), middleware.SessionID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, view)
}

// Discard drops the return in progress
// @Summary      Discard return draft
// @Tags         returns
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/returns/draft [delete]
func (h *ReturnHandler) Discard(c *gin.Context) {
	if err := h.returnService.Discard(middleware.SessionID(c)); err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "Return discarded")
}
