package middleware

import (
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	ctxutil "github.com/Payphone-Digital/eventhub/pkg/context"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	slowRequestThreshold = 2 * time.Second
	// successful requests logged per second; errors and slow requests are never dropped
	accessLogsPerSecond = 200
)

// LoggingMiddleware writes one structured access-log entry per request.
func LoggingMiddleware() gin.HandlerFunc {
	limiter := logger.NewRateLimiter(accessLogsPerSecond)

	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			fields := []zap.Field{
				zap.String("method", param.Method),
				zap.String("path", param.Path),
				zap.Int("status_code", param.StatusCode),
				zap.Duration("latency", param.Latency),
				zap.String("client_ip", param.ClientIP),
				zap.Int("response_size", param.BodySize),
			}
			if param.Request != nil {
				fields = append(fields, zap.String("user_agent", param.Request.UserAgent()))
				if requestID := ctxutil.GetRequestID(param.Request.Context()); requestID != "" {
					fields = append(fields, zap.String("request_id", requestID))
				}
			}
			if param.ErrorMessage != "" {
				fields = append(fields, zap.String("error", param.ErrorMessage))
			}

			log := logger.GetLogger()
			switch {
			case param.StatusCode >= http.StatusInternalServerError:
				log.Error("Server error", fields...)
			case param.StatusCode >= http.StatusBadRequest:
				log.Warn("Client error", fields...)
			case param.Latency > slowRequestThreshold:
				log.Warn("Slow request", fields...)
			case limiter.Allow():
				log.Info("Request completed", fields...)
			}

			return ""
		},
		Output: io.Discard,
	})
}

// RecoveryMiddleware turns a panic into a 500. The stack is returned to the
// client only when exposeStack is set (development).
func RecoveryMiddleware(exposeStack bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered interface{}) {
		logger.LogPanic(recovered,
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", ctxutil.GetRequestID(c.Request.Context())),
		)

		body := constants.BuildCodedErrorResponse(constants.MsgInternalError, "")
		if exposeStack {
			body[constants.ResponseFieldStack] = fmt.Sprintf("%v\n%s", recovered, debug.Stack())
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, body)
	})
}
