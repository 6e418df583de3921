package dto

import "time"

type CategoryResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EventCount int64  `json:"eventCount"`
	IsFavorite bool   `json:"isFavorite"`
}

type FavoriteCategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	EventCount  int64     `json:"eventCount"`
	FavoritedAt time.Time `json:"favoritedAt"`
}

type ReplaceFavoritesRequest struct {
	CategoryIDs []string `json:"categoryIds" binding:"required,dive,required"`
}

type FavoriteAddedResponse struct {
	Message  string      `json:"message"`
	Category CategoryRef `json:"category"`
}

type FavoritesUpdatedResponse struct {
	Message   string        `json:"message"`
	Favorites []CategoryRef `json:"favorites"`
}
