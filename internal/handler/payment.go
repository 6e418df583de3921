package handler

import (
	"net/http"

	"github.com/Payphone-Digital/eventhub/internal/dto"
	apperrors "github.com/Payphone-Digital/eventhub/internal/errors"
	"github.com/Payphone-Digital/eventhub/internal/service"
	ctxutil "github.com/Payphone-Digital/eventhub/pkg/context"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Config exposes the provider name and the test cards the mock accepts.
func (h *PaymentHandler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, h.paymentService.Config())
}

// Pay charges the caller for a paid event. A declined charge still returns
// the recorded transaction, with status 402.
func (h *PaymentHandler) Pay(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Pay")

	identity, ok := caller(c)
	if !ok {
		return
	}

	var req dto.CreatePaymentRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	response, err := h.paymentService.Pay(ctx, identity, &req)
	if err != nil {
		if response != nil && apperrors.GetErrorCode(err) == apperrors.CodePaymentDeclined {
			c.JSON(http.StatusPaymentRequired, response)
			return
		}
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *PaymentHandler) History(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "PaymentHistory")

	identity, ok := caller(c)
	if !ok {
		return
	}

	history, err := h.paymentService.History(ctx, identity.ID)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}
