package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/eventhub/internal/model"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	ctx = withFunction(ctx, "ListCategories")
	start := time.Now()

	var categories []model.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	logQuery(ctx, "categories.list", start, err)
	return categories, err
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	ctx = withFunction(ctx, "GetCategoryByID")
	start := time.Now()

	var category model.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	logQuery(ctx, "categories.find_id", start, err)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(withFunction(ctx, "CategoryExists")).Model(&model.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// EventCounts maps category id to the number of events in it.
func (r *CategoryRepository) EventCounts(ctx context.Context) (map[string]int64, error) {
	ctx = withFunction(ctx, "CategoryEventCounts")
	start := time.Now()

	var rows []struct {
		CategoryID string
		Total      int64
	}
	err := r.db.WithContext(ctx).Model(&model.Event{}).
		Select("category_id, COUNT(*) AS total").
		Group("category_id").
		Scan(&rows).Error
	logQuery(ctx, "events.count_by_category", start, err)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Total
	}
	return counts, nil
}

// FavoriteIDs returns the ids of userID's favorite categories.
func (r *CategoryRepository) FavoriteIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(withFunction(ctx, "FavoriteCategoryIDs")).
		Model(&model.UserFavoriteCategory{}).
		Where("user_id = ?", userID).
		Pluck("category_id", &ids).Error
	return ids, err
}

// ListFavorites returns userID's favorites with their categories, newest first.
func (r *CategoryRepository) ListFavorites(ctx context.Context, userID string) ([]model.UserFavoriteCategory, error) {
	ctx = withFunction(ctx, "ListFavoriteCategories")
	start := time.Now()

	var favorites []model.UserFavoriteCategory
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	logQuery(ctx, "user_favorite_categories.list", start, err)
	return favorites, err
}

// AddFavorite links a category to a user. ErrAlreadyExists when the pair is
// already present.
func (r *CategoryRepository) AddFavorite(ctx context.Context, userID, categoryID string) (*model.UserFavoriteCategory, error) {
	ctx = withFunction(ctx, "AddFavoriteCategory")
	start := time.Now()

	favorite := &model.UserFavoriteCategory{UserID: userID, CategoryID: categoryID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.UserFavoriteCategory{}).
			Where("user_id = ? AND category_id = ?", userID, categoryID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyExists
		}
		return tx.Omit("Category").Create(favorite).Error
	})
	logQuery(ctx, "user_favorite_categories.create", start, err)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Preload("Category").First(favorite, "id = ?", favorite.ID).Error; err != nil {
		return nil, err
	}
	return favorite, nil
}

// RemoveFavorite unlinks a category; gorm.ErrRecordNotFound when it was not linked.
func (r *CategoryRepository) RemoveFavorite(ctx context.Context, userID, categoryID string) error {
	ctx = withFunction(ctx, "RemoveFavoriteCategory")
	start := time.Now()

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Delete(&model.UserFavoriteCategory{})
	logQuery(ctx, "user_favorite_categories.delete", start, result.Error)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceFavorites swaps userID's favorites for categoryIDs in one
// transaction. Unknown ids yield gorm.ErrRecordNotFound and change nothing.
func (r *CategoryRepository) ReplaceFavorites(ctx context.Context, userID string, categoryIDs []string) ([]model.UserFavoriteCategory, error) {
	ctx = withFunction(ctx, "ReplaceFavoriteCategories")
	start := time.Now()

	unique := dedupe(categoryIDs)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(unique) > 0 {
			var found int64
			if err := tx.Model(&model.Category{}).Where("id IN ?", unique).Count(&found).Error; err != nil {
				return err
			}
			if int(found) != len(unique) {
				return gorm.ErrRecordNotFound
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&model.UserFavoriteCategory{}).Error; err != nil {
			return err
		}
		if len(unique) == 0 {
			return nil
		}

		rows := make([]model.UserFavoriteCategory, 0, len(unique))
		for _, id := range unique {
			rows = append(rows, model.UserFavoriteCategory{UserID: userID, CategoryID: id})
		}
		return tx.Omit("Category").Create(&rows).Error
	})
	logQuery(ctx, "user_favorite_categories.replace", start, err)
	if err != nil {
		return nil, err
	}
	return r.ListFavorites(ctx, userID)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
