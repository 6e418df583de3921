package handler

import (
	"net/http"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/dto"
	"github.com/Payphone-Digital/eventhub/internal/service"
	ctxutil "github.com/Payphone-Digital/eventhub/pkg/context"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetMyProfile")

	identity, ok := caller(c)
	if !ok {
		return
	}

	profile, err := h.profileService.Me(ctx, identity.ID)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Public returns another user's profile without contact details.
func (h *ProfileHandler) Public(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetPublicProfile")

	profile, err := h.profileService.Public(ctx, c.Param("id"))
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateProfile")

	identity, ok := caller(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	profile, err := h.profileService.Update(ctx, identity.ID, &req)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ChangePassword")

	identity, ok := caller(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	if err := h.profileService.ChangePassword(ctx, identity.ID, &req); err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgPasswordChanged))
}

// DeleteAccount removes the caller and everything they own after
// re-checking their password.
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteAccount")

	identity, ok := caller(c)
	if !ok {
		return
	}

	var req dto.DeleteAccountRequest
	if !bindOptionalJSON(ctx, c, &req) {
		return
	}

	if err := h.profileService.DeleteAccount(ctx, identity.ID, req.Password); err != nil {
		respondError(ctx, c, err)
		return
	}

	logger.InfoWithContext(ctx, "Account deleted").Log()
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgAccountDeleted))
}
