package handler

import (
	"net/http"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/dto"
	"github.com/Payphone-Digital/eventhub/internal/service"
	ctxutil "github.com/Payphone-Digital/eventhub/pkg/context"
	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	registrationService *service.RegistrationService
}

func NewRegistrationHandler(registrationService *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

func (h *RegistrationHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CreateRegistration")

	identity, ok := caller(c)
	if !ok {
		return
	}

	var req dto.CreateRegistrationRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	registration, err := h.registrationService.Register(ctx, identity, req.EventID)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusCreated, registration)
}

// ListByUser is open to the user themself and to admins.
func (h *RegistrationHandler) ListByUser(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListRegistrations")

	identity, ok := caller(c)
	if !ok {
		return
	}

	registrations, err := h.registrationService.ListByUser(ctx, identity, c.Param("userId"))
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, registrations)
}

func (h *RegistrationHandler) Cancel(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CancelRegistration")

	identity, ok := caller(c)
	if !ok {
		return
	}

	if err := h.registrationService.Cancel(ctx, identity, c.Param("id")); err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgRegistrationCanceled))
}
