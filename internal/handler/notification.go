package handler

import (
	"net/http"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/dto"
	"github.com/Payphone-Digital/eventhub/internal/service"
	ctxutil "github.com/Payphone-Digital/eventhub/pkg/context"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// Send notifies every registrant of an event the caller organizes.
func (h *NotificationHandler) Send(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "SendNotification")

	identity, ok := caller(c)
	if !ok {
		return
	}

	var req dto.SendNotificationRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	response, err := h.notificationService.Send(ctx, identity, &req)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *NotificationHandler) ListMine(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListNotifications")

	identity, ok := caller(c)
	if !ok {
		return
	}

	notifications, err := h.notificationService.ListMine(ctx, identity.ID)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "MarkNotificationRead")

	identity, ok := caller(c)
	if !ok {
		return
	}

	if _, err := h.notificationService.MarkRead(ctx, identity.ID, c.Param("id")); err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgNotificationRead))
}
