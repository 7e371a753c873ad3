package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sumanshinde/cloth-pos/internal/middleware"
	"github.com/sumanshinde/cloth-pos/internal/service"
	"github.com/sumanshinde/cloth-pos/pkg/pagination"
	"github.com/sumanshinde/cloth-pos/pkg/response"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/analytics", h.GetAnalytics)
	router.GET("/analytics/daily", h.GetDailyStats)
	router.GET("/sales", h.ListSales)
	router.GET("/returns", h.ListReturns)
}

// @Summary      Get sales analytics
// @Description  Revenue, refunds, payment breakdown, top products and monthly trend for a period
// @Tags         analytics
// @Security     BearerAuth
// @Produce      json
// @Param        period      query  string  false  "Days (7, 30, 90) or this_month"
// @Param        start_date  query  string  false  "Start Date (RFC3339)"
// @Param        end_date    query  string  false  "End Date (RFC3339)"
// @Success      200  {object}  response.Response{data=model.Analytics}
// @Failure      400  {object}  response.Response  "Invalid period"
// @Failure      502  {object}  response.Response
// @Router       /api/analytics [get]
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	var query service.AnalyticsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}

	analytics, err := h.analyticsService.GetAnalytics(c.Request.Context(), middleware.SessionID(c), query)
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analytics)
}

// @Summary      Get today's stats
// @Tags         analytics
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.AnalyticsSummary}
// @Router       /api/analytics/daily [get]
func (h *AnalyticsHandler) GetDailyStats(c *gin.Context) {
	summary, err := h.analyticsService.GetDailyStats(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// @Summary      List sales
// @Tags         analytics
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=pagination.Page[model.Sale]}
// @Router       /api/sales [get]
func (h *AnalyticsHandler) ListSales(c *gin.Context) {
	params := pagination.Parse(c)
	sales, err := h.analyticsService.ListSales(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pagination.Slice(sales, params))
}

// @Summary      List returns
// @Tags         analytics
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=pagination.Page[model.Return]}
// @Router       /api/returns [get]
func (h *AnalyticsHandler) ListReturns(c *gin.Context) {
	params := pagination.Parse(c)
	list, err := h.analyticsService.ListReturns(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pagination.Slice(list, params))
}
