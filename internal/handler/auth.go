package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/dto"
	"github.com/Payphone-Digital/eventhub/internal/service"
	ctxutil "github.com/Payphone-Digital/eventhub/pkg/context"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an account. Role defaults to ATTENDEE.
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	var req dto.RegisterRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	response, err := h.authService.Register(ctx, &req)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	logger.InfoWithContext(ctx, "User login attempt").
		String("email", req.Email).
		Log()

	response, err := h.authService.Login(ctx, &req)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Refresh rotates a refresh token into a new pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Refresh")

	var req dto.RefreshRequest
	if !bindOptionalJSON(ctx, c, &req) {
		return
	}

	pair, err := h.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Logout ends the session named in the body, or every session of the caller
// when the body carries no refresh token.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")

	identity, ok := caller(c)
	if !ok {
		return
	}

	var req dto.LogoutRequest
	if !bindOptionalJSON(ctx, c, &req) {
		return
	}

	if err := h.authService.Logout(ctx, identity.ID, req.RefreshToken); err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgLoggedOut))
}

func (h *AuthHandler) LogoutAll(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "LogoutAll")

	identity, ok := caller(c)
	if !ok {
		return
	}

	if _, err := h.authService.LogoutAll(ctx, identity.ID); err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgAllSessionsLoggedOut))
}

// bindOptionalJSON is bindJSON for bodies that may be absent entirely.
func bindOptionalJSON(ctx context.Context, c *gin.Context, dst interface{}) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return bindFailed(ctx, c, err)
	}
	return true
}
