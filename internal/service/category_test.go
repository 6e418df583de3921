package service

import (
	"context"
	"testing"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	apperrors "github.com/Payphone-Digital/eventhub/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_ListMarksFavorites(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice", "")
	organizer := f.user(t, "olga", constants.RoleOrganizer)
	music := f.category(t, "Music")
	tech := f.category(t, "Tech")
	art := f.category(t, "Art")
	f.event(t, organizer, tech.ID, 5, false)
	ctx := context.Background()

	_, err := f.categorySvc.AddFavorite(ctx, user.ID, music.ID)
	require.NoError(t, err)

	anon, err := f.categorySvc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, anon, 3)
	assert.Equal(t, []string{art.Name, music.Name, tech.Name}, []string{anon[0].Name, anon[1].Name, anon[2].Name})
	for _, c := range anon {
		assert.False(t, c.IsFavorite)
	}
	assert.EqualValues(t, 1, anon[2].EventCount)

	mine, err := f.categorySvc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, mine[1].IsFavorite)
	assert.False(t, mine[0].IsFavorite)

	one, err := f.categorySvc.Get(ctx, tech.ID, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, one.EventCount)
	assert.False(t, one.IsFavorite)

	_, err = f.categorySvc.Get(ctx, "missing", "")
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
}

func TestCategoryService_FavoriteLifecycle(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "alice", "")
	music := f.category(t, "Music")
	tech := f.category(t, "Tech")
	ctx := context.Background()

	added, err := f.categorySvc.AddFavorite(ctx, user.ID, music.ID)
	require.NoError(t, err)
	assert.Equal(t, "Category added to favorites", added.Message)
	assert.Equal(t, music.ID, added.Category.ID)

	_, err = f.categorySvc.AddFavorite(ctx, user.ID, music.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyFavorite)

	_, err = f.categorySvc.AddFavorite(ctx, user.ID, "missing")
	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)

	replaced, err := f.categorySvc.ReplaceFavorites(ctx, user.ID, []string{tech.ID, tech.ID})
	require.NoError(t, err)
	require.Len(t, replaced.Favorites, 1)
	assert.Equal(t, tech.ID, replaced.Favorites[0].ID)

	_, err = f.categorySvc.ReplaceFavorites(ctx, user.ID, []string{music.ID, "missing"})
	assert.ErrorIs(t, err, apperrors.ErrUnknownCategories)

	favorites, err := f.categorySvc.Favorites(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 1, "a rejected replace leaves the set untouched")
	assert.Equal(t, tech.ID, favorites[0].ID)

	require.NoError(t, f.categorySvc.RemoveFavorite(ctx, user.ID, tech.ID))
	assert.ErrorIs(t, f.categorySvc.RemoveFavorite(ctx, user.ID, tech.ID), apperrors.ErrNotFavorite)
}
