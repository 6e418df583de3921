package service

import (
	"context"
	"errors"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/dto"
	apperrors "github.com/Payphone-Digital/eventhub/internal/errors"
	"github.com/Payphone-Digital/eventhub/internal/repository"
	ctxutil "github.com/Payphone-Digital/eventhub/pkg/context"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
	"gorm.io/gorm"
)

// categoryCount is the cached, user-independent part of a category listing.
type categoryCount struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EventCount int64  `json:"eventCount"`
}

type CategoryService struct {
	categories *repository.CategoryRepository
	cache      *CacheService
}

func NewCategoryService(categories *repository.CategoryRepository, cache *CacheService) *CategoryService {
	return &CategoryService{categories: categories, cache: cache}
}

// List returns every category ordered by name. isFavorite is only ever true
// when userID is set.
func (s *CategoryService) List(ctx context.Context, userID string) ([]dto.CategoryResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ListCategories")

	counted, err := s.countedCategories(ctx)
	if err != nil {
		return nil, err
	}

	favorites, err := s.favoriteSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CategoryResponse, 0, len(counted))
	for _, c := range counted {
		_, fav := favorites[c.ID]
		out = append(out, dto.CategoryResponse{
			ID:         c.ID,
			Name:       c.Name,
			EventCount: c.EventCount,
			IsFavorite: fav,
		})
	}
	return out, nil
}

func (s *CategoryService) Get(ctx context.Context, id, userID string) (*dto.CategoryResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "GetCategory")

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	counts, err := s.categories.EventCounts(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	favorites, err := s.favoriteSet(ctx, userID)
	if err != nil {
		return nil, err
	}
	_, fav := favorites[category.ID]

	return &dto.CategoryResponse{
		ID:         category.ID,
		Name:       category.Name,
		EventCount: counts[category.ID],
		IsFavorite: fav,
	}, nil
}

func (s *CategoryService) Favorites(ctx context.Context, userID string) ([]dto.FavoriteCategoryResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ListFavoriteCategories")

	favorites, err := s.categories.ListFavorites(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	counts, err := s.categories.EventCounts(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	out := make([]dto.FavoriteCategoryResponse, 0, len(favorites))
	for _, f := range favorites {
		out = append(out, dto.FavoriteCategoryResponse{
			ID:          f.Category.ID,
			Name:        f.Category.Name,
			EventCount:  counts[f.CategoryID],
			FavoritedAt: f.CreatedAt,
		})
	}
	return out, nil
}

func (s *CategoryService) AddFavorite(ctx context.Context, userID, categoryID string) (*dto.FavoriteAddedResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "AddFavoriteCategory")

	ok, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !ok {
		return nil, apperrors.ErrCategoryNotFound
	}

	favorite, err := s.categories.AddFavorite(ctx, userID, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, apperrors.ErrAlreadyFavorite
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Category added to favorites").
		String("category_id", categoryID).
		Log()

	return &dto.FavoriteAddedResponse{
		Message:  "Category added to favorites",
		Category: dto.CategoryRef{ID: favorite.Category.ID, Name: favorite.Category.Name},
	}, nil
}

func (s *CategoryService) RemoveFavorite(ctx context.Context, userID, categoryID string) error {
	ctx = ctxutil.WithFunction(ctx, "service", "RemoveFavoriteCategory")

	if err := s.categories.RemoveFavorite(ctx, userID, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFavorite
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return nil
}

// ReplaceFavorites makes categoryIDs the user's complete favorite set.
// Duplicate ids are collapsed; an unknown id rejects the whole request.
func (s *CategoryService) ReplaceFavorites(ctx context.Context, userID string, categoryIDs []string) (*dto.FavoritesUpdatedResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ReplaceFavoriteCategories")

	favorites, err := s.categories.ReplaceFavorites(ctx, userID, categoryIDs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnknownCategories
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	refs := make([]dto.CategoryRef, 0, len(favorites))
	for _, f := range favorites {
		refs = append(refs, dto.CategoryRef{ID: f.Category.ID, Name: f.Category.Name})
	}

	logger.InfoWithContext(ctx, "Favorite categories replaced").
		Int("count", len(refs)).
		Log()

	return &dto.FavoritesUpdatedResponse{
		Message:   "Favorite categories updated",
		Favorites: refs,
	}, nil
}

func (s *CategoryService) countedCategories(ctx context.Context) ([]categoryCount, error) {
	var cached []categoryCount
	if s.cache.GetJSON(ctx, constants.CacheKeyCategoryList, &cached) {
		return cached, nil
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	counts, err := s.categories.EventCounts(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	out := make([]categoryCount, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryCount{ID: c.ID, Name: c.Name, EventCount: counts[c.ID]})
	}
	s.cache.SetJSON(ctx, constants.CacheKeyCategoryList, out)
	return out, nil
}

func (s *CategoryService) favoriteSet(ctx context.Context, userID string) (map[string]struct{}, error) {
	set := map[string]struct{}{}
	if userID == "" {
		return set, nil
	}
	ids, err := s.categories.FavoriteIDs(ctx, userID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
