package handler

import (
	"net/http"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/dto"
	"github.com/Payphone-Digital/eventhub/internal/service"
	ctxutil "github.com/Payphone-Digital/eventhub/pkg/context"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List pages through events, optionally filtered by category, status or
// organizer.
func (h *EventHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListEvents")

	var query dto.EventListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindFailed(ctx, c, err)
		return
	}

	response, err := h.eventService.List(ctx, query, constants.ParsePaginationParams(c))
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *EventHandler) Get(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetEvent")

	event, err := h.eventService.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) ListOrganized(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListOrganizedEvents")

	identity, ok := caller(c)
	if !ok {
		return
	}

	events, err := h.eventService.ListOrganized(ctx, identity.ID)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CreateEvent")

	identity, ok := caller(c)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	event, err := h.eventService.Create(ctx, identity, &req)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// Update is limited to the event's organizer and admins.
func (h *EventHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateEvent")

	identity, ok := caller(c)
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	event, err := h.eventService.Update(ctx, identity, c.Param("id"), &req)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteEvent")

	if err := h.eventService.Delete(ctx, c.Param("id")); err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgEventDeleted))
}
