package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	apperrors "github.com/Payphone-Digital/eventhub/internal/errors"
	"github.com/Payphone-Digital/eventhub/internal/middleware"
	"github.com/Payphone-Digital/eventhub/internal/service"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"github.com/Payphone-Digital/eventhub/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError writes err as {message, code} with the status mapped from
// its domain code. Anything that is not a domain error becomes a 500.
func respondError(ctx context.Context, c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorWithContext(ctx, "Request failed").
			Int("status", status).
			Err(err).
			Log()
	} else {
		logger.WarnWithContext(ctx, "Request rejected").
			Int("status", status).
			String("code", apperrors.GetErrorCode(err)).
			Log()
	}

	c.JSON(status, constants.BuildCodedErrorResponse(apperrors.GetErrorMessage(err), apperrors.GetErrorCode(err)))
}

// bindJSON decodes the body into dst and runs its binding rules. On failure
// it writes the 400 response and returns false.
func bindJSON(ctx context.Context, c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		return bindFailed(ctx, c, err)
	}
	return true
}

// bindFailed writes the 400 for a bind error and returns false.
func bindFailed(ctx context.Context, c *gin.Context, err error) bool {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := validation.Messages(err)
		logger.WarnWithContext(ctx, "Request validation failed").
			Strings("details", details).
			Log()
		body := constants.BuildErrorResponse(constants.MsgValidationError, details)
		body[constants.ResponseFieldCode] = apperrors.CodeInvalidInput
		c.JSON(http.StatusBadRequest, body)
		return false
	}

	logger.WarnWithContext(ctx, "Malformed request body").
		Err(err).
		Log()
	c.JSON(http.StatusBadRequest, constants.BuildCodedErrorResponse(constants.MsgInvalidRequestBody, apperrors.CodeInvalidInput))
	return false
}

// caller returns the authenticated identity. Routes that call it sit behind
// RequireAuth, so a missing identity is answered with 401.
func caller(c *gin.Context) (service.Identity, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgMissingToken, nil))
	}
	return identity, ok
}
