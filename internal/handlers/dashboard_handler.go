package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/services"
)

// DashboardHandler serves the per-user summary.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard returns income, expenses, balance, the expense breakdown and
// the most recent transactions of the caller
// @Summary     Get dashboard
// @Tags        dashboard
// @Produce     json
// @Param       X-User-ID header string true "Caller user ID"
// @Success     200 {object} map[string]models.DashboardSummary "Dashboard summary"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     503 {object} ErrorResponse "Store unavailable"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.dashboardService.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": summary})
}
