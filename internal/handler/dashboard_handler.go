package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sumanshinde/cloth-pos/internal/middleware"
	"github.com/sumanshinde/cloth-pos/internal/service"
	"github.com/sumanshinde/cloth-pos/pkg/response"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", h.GetDashboard)
}

// @Summary      Get dashboard
// @Description  Stock totals, low/out-of-stock counts and the best-stocked variants
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.DashboardStats}
// @Failure      502  {object}  response.Response
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	stats, err := h.dashboardService.GetDashboard(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}
