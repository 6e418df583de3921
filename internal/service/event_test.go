package service

import (
	"context"
	"testing"
	"time"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/dto"
	apperrors "github.com/Payphone-Digital/eventhub/internal/errors"
	"github.com/Payphone-Digital/eventhub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventService_CreateValidatesCategoryAndDate(t *testing.T) {
	f := newFixture(t)
	organizer := f.user(t, "olga", constants.RoleOrganizer)
	ctx := context.Background()

	req := &dto.CreateEventRequest{
		Title:        "Go meetup",
		Description:  "An evening of talks about Go.",
		DateTime:     time.Now().Add(time.Hour),
		Location:     "Berlin",
		MaxAttendees: 10,
		CategoryID:   "missing",
	}
	_, err := f.eventSvc.Create(ctx, organizer, req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCategory)
	assert.Equal(t, 400, apperrors.ToHTTPStatus(err))

	req.CategoryID = f.category(t, "Tech").ID
	req.DateTime = time.Now().Add(-time.Hour)
	_, err = f.eventSvc.Create(ctx, organizer, req)
	assert.ErrorIs(t, err, apperrors.ErrEventInPast)

	req.DateTime = time.Now().Add(time.Hour)
	created, err := f.eventSvc.Create(ctx, organizer, req)
	require.NoError(t, err)
	assert.Equal(t, organizer.ID, created.OrganizerID)
	require.NotNil(t, created.Category)
	assert.Equal(t, "Tech", created.Category.Name)
	require.NotNil(t, created.RegistrationCount)
	assert.Zero(t, *created.RegistrationCount)
}

func TestEventService_GetAndList(t *testing.T) {
	f := newFixture(t)
	organizer := f.user(t, "olga", constants.RoleOrganizer)
	attendee := f.user(t, "alice", "")
	tech := f.category(t, "Tech")
	music := f.category(t, "Music")
	ctx := context.Background()

	ev := f.event(t, organizer, tech.ID, 10, false)
	f.event(t, organizer, music.ID, 10, false)
	_, err := f.registerSvc.Register(ctx, attendee, ev.ID)
	require.NoError(t, err)

	got, err := f.eventSvc.Get(ctx, ev.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, *got.RegistrationCount)

	_, err = f.eventSvc.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)

	page := constants.PaginationParams{Page: 1, Limit: 10, Offset: 0}
	list, err := f.eventSvc.List(ctx, dto.EventListQuery{CategoryID: tech.ID}, page)
	require.NoError(t, err)
	require.Len(t, list.Events, 1)
	assert.EqualValues(t, 1, *list.Events[0].RegistrationCount)
	assert.Equal(t, dto.Pagination{Page: 1, Limit: 10, Total: 1, Pages: 1}, list.Pagination)

	all, err := f.eventSvc.List(ctx, dto.EventListQuery{}, constants.PaginationParams{Page: 2, Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, all.Events, 1)
	assert.EqualValues(t, 2, all.Pagination.Total)
	assert.Equal(t, 2, all.Pagination.Pages)

	mine, err := f.eventSvc.ListOrganized(ctx, organizer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestEventService_UpdateOwnership(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "olga", constants.RoleOrganizer)
	other := f.user(t, "oscar", constants.RoleOrganizer)
	admin := f.user(t, "root", constants.RoleAdmin)
	tech := f.category(t, "Tech")
	ctx := context.Background()
	ev := f.event(t, owner, tech.ID, 10, false)

	title := "Renamed meetup"
	_, err := f.eventSvc.Update(ctx, other, ev.ID, &dto.UpdateEventRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := f.eventSvc.Update(ctx, owner, ev.ID, &dto.UpdateEventRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	status := constants.EventStatusCanceled
	updated, err = f.eventSvc.Update(ctx, admin, ev.ID, &dto.UpdateEventRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, constants.EventStatusCanceled, updated.Status)

	bogus := "nope"
	_, err = f.eventSvc.Update(ctx, owner, ev.ID, &dto.UpdateEventRequest{CategoryID: &bogus})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCategory)

	_, err = f.eventSvc.Update(ctx, owner, "missing", &dto.UpdateEventRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestEventService_DeleteCascadesAndInvalidatesCache(t *testing.T) {
	f := newFixture(t)
	organizer := f.user(t, "olga", constants.RoleOrganizer)
	attendee := f.user(t, "alice", "")
	tech := f.category(t, "Tech")
	ctx := context.Background()
	ev := f.event(t, organizer, tech.ID, 10, false)
	_, err := f.registerSvc.Register(ctx, attendee, ev.ID)
	require.NoError(t, err)

	cats, err := f.categorySvc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.EqualValues(t, 1, cats[0].EventCount)

	require.NoError(t, f.eventSvc.Delete(ctx, ev.ID))

	var regs int64
	require.NoError(t, f.db.Model(&model.Registration{}).Count(&regs).Error)
	assert.Zero(t, regs)

	cats, err = f.categorySvc.List(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, cats[0].EventCount, "cached counts must be dropped on delete")

	assert.ErrorIs(t, f.eventSvc.Delete(ctx, ev.ID), apperrors.ErrEventNotFound)
}
