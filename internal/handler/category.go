package handler

import (
	"net/http"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/dto"
	"github.com/Payphone-Digital/eventhub/internal/middleware"
	"github.com/Payphone-Digital/eventhub/internal/service"
	ctxutil "github.com/Payphone-Digital/eventhub/pkg/context"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List is public; an authenticated caller also gets isFavorite flags.
func (h *CategoryHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListCategories")

	identity, _ := middleware.IdentityFrom(c)
	categories, err := h.categoryService.List(ctx, identity.ID)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetCategory")

	identity, _ := middleware.IdentityFrom(c)
	category, err := h.categoryService.Get(ctx, c.Param("id"), identity.ID)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Favorites(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "FavoriteCategories")

	identity, ok := caller(c)
	if !ok {
		return
	}

	favorites, err := h.categoryService.Favorites(ctx, identity.ID)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, favorites)
}

func (h *CategoryHandler) AddFavorite(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "AddFavorite")

	identity, ok := caller(c)
	if !ok {
		return
	}

	response, err := h.categoryService.AddFavorite(ctx, identity.ID, c.Param("id"))
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *CategoryHandler) RemoveFavorite(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RemoveFavorite")

	identity, ok := caller(c)
	if !ok {
		return
	}

	if err := h.categoryService.RemoveFavorite(ctx, identity.ID, c.Param("id")); err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgFavoriteRemoved))
}

// ReplaceFavorites swaps the caller's whole favorite set.
func (h *CategoryHandler) ReplaceFavorites(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ReplaceFavorites")

	identity, ok := caller(c)
	if !ok {
		return
	}

	var req dto.ReplaceFavoritesRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	response, err := h.categoryService.ReplaceFavorites(ctx, identity.ID, req.CategoryIDs)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
