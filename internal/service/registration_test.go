package service

import (
	"context"
	"testing"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	apperrors "github.com/Payphone-Digital/eventhub/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationService_FreeEventIsPaidAndMailed(t *testing.T) {
	f := newFixture(t)
	organizer := f.user(t, "olga", constants.RoleOrganizer)
	alice := f.user(t, "alice", "")
	ev := f.event(t, organizer, f.category(t, "Tech").ID, 10, false)
	ctx := context.Background()

	reg, err := f.registerSvc.Register(ctx, alice, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.PaymentStatusPaid, reg.PaymentStatus)
	require.NotNil(t, reg.Event)
	assert.Equal(t, ev.ID, reg.Event.ID)

	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "alice@example.com", sent[0].To)
	assert.Contains(t, sent[0].Subject, ev.Title)
	assert.Contains(t, f.publisher.Types(), constants.EventRegistrationCreated)

	_, err = f.registerSvc.Register(ctx, alice, ev.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
	assert.Equal(t, 409, apperrors.ToHTTPStatus(err))
}

func TestRegistrationService_PaidEventStartsPending(t *testing.T) {
	f := newFixture(t)
	organizer := f.user(t, "olga", constants.RoleOrganizer)
	alice := f.user(t, "alice", "")
	ev := f.event(t, organizer, f.category(t, "Tech").ID, 10, true)

	reg, err := f.registerSvc.Register(context.Background(), alice, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.PaymentStatusPending, reg.PaymentStatus)
	assert.Empty(t, f.mailer.Sent())
}

func TestRegistrationService_CapacityAndMissingEvent(t *testing.T) {
	f := newFixture(t)
	organizer := f.user(t, "olga", constants.RoleOrganizer)
	alice := f.user(t, "alice", "")
	bob := f.user(t, "bob", "")
	ev := f.event(t, organizer, f.category(t, "Tech").ID, 1, false)
	ctx := context.Background()

	_, err := f.registerSvc.Register(ctx, alice, ev.ID)
	require.NoError(t, err)

	_, err = f.registerSvc.Register(ctx, bob, ev.ID)
	assert.ErrorIs(t, err, apperrors.ErrEventFull)
	assert.Equal(t, 400, apperrors.ToHTTPStatus(err))

	_, err = f.registerSvc.Register(ctx, bob, "missing")
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestRegistrationService_ListAndCancelPermissions(t *testing.T) {
	f := newFixture(t)
	organizer := f.user(t, "olga", constants.RoleOrganizer)
	alice := f.user(t, "alice", "")
	bob := f.user(t, "bob", "")
	admin := f.user(t, "root", constants.RoleAdmin)
	ev := f.event(t, organizer, f.category(t, "Tech").ID, 10, false)
	ctx := context.Background()

	reg, err := f.registerSvc.Register(ctx, alice, ev.ID)
	require.NoError(t, err)

	_, err = f.registerSvc.ListByUser(ctx, bob, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	mine, err := f.registerSvc.ListByUser(ctx, alice, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Event)
	require.NotNil(t, mine[0].Event.Category)
	assert.Equal(t, "Tech", mine[0].Event.Category.Name)

	viaAdmin, err := f.registerSvc.ListByUser(ctx, admin, alice.ID)
	require.NoError(t, err)
	assert.Len(t, viaAdmin, 1)

	assert.ErrorIs(t, f.registerSvc.Cancel(ctx, bob, reg.ID), apperrors.ErrForbidden)
	require.NoError(t, f.registerSvc.Cancel(ctx, alice, reg.ID))
	assert.ErrorIs(t, f.registerSvc.Cancel(ctx, alice, reg.ID), apperrors.ErrRegistrationNotFound)
	assert.Contains(t, f.publisher.Types(), constants.EventRegistrationDeleted)
}
