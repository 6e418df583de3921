package service

import (
	"context"
	"testing"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsService_Dashboard(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "root", constants.RoleAdmin)
	olga := f.user(t, "olga", constants.RoleOrganizer)
	oscar := f.user(t, "oscar", constants.RoleOrganizer)
	alice := f.user(t, "alice", "")
	tech := f.category(t, "Tech")
	ctx := context.Background()

	mine := f.event(t, olga, tech.ID, 10, false)
	theirs := f.event(t, oscar, tech.ID, 10, false)
	_, err := f.registerSvc.Register(ctx, alice, mine.ID)
	require.NoError(t, err)
	_, err = f.registerSvc.Register(ctx, alice, theirs.ID)
	require.NoError(t, err)

	global, err := f.analyticsSvc.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.EqualValues(t, 2, global.EventsCount)
	assert.EqualValues(t, 2, global.RegistrationsCount)
	require.NotNil(t, global.UsersCount)
	assert.EqualValues(t, 4, *global.UsersCount)

	scoped, err := f.analyticsSvc.Dashboard(ctx, olga)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleOrganizer, scoped.Role)
	assert.EqualValues(t, 1, scoped.EventsCount)
	assert.EqualValues(t, 1, scoped.RegistrationsCount)
	assert.Nil(t, scoped.UsersCount)
}
