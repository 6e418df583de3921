package handler

import (
	"net/http"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/service"
	ctxutil "github.com/Payphone-Digital/eventhub/pkg/context"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"github.com/gin-gonic/gin"
)

type CacheHandler struct {
	cacheService *service.CacheService
}

func NewCacheHandler(cacheService *service.CacheService) *CacheHandler {
	return &CacheHandler{cacheService: cacheService}
}

// InvalidateCache drops the cached category list so the next read rebuilds
// it from the database.
func (h *CacheHandler) InvalidateCache(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "InvalidateCache")

	h.cacheService.Invalidate(ctx, constants.CacheKeyCategoryList)

	logger.InfoWithContext(ctx, "Cache invalidated").
		String("cache_key", constants.CacheKeyCategoryList).
		Log()

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgCacheInvalidated))
}
