package handler

import (
	"net/http"

	"github.com/Payphone-Digital/eventhub/internal/service"
	ctxutil "github.com/Payphone-Digital/eventhub/pkg/context"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Dashboard serves both /api/admin/dashboard and /api/analytics/dashboard.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Dashboard")

	identity, ok := caller(c)
	if !ok {
		return
	}

	dashboard, err := h.analyticsService.Dashboard(ctx, identity)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
