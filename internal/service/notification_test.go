package service

import (
	"context"
	"testing"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/dto"
	apperrors "github.com/Payphone-Digital/eventhub/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_SendFansOutToRegistrants(t *testing.T) {
	f := newFixture(t)
	organizer := f.user(t, "olga", constants.RoleOrganizer)
	ev := f.event(t, organizer, f.category(t, "Tech").ID, 10, false)
	ctx := context.Background()

	names := []string{"alice", "bob", "carol"}
	for _, name := range names {
		_, err := f.registerSvc.Register(ctx, f.user(t, name, ""), ev.ID)
		require.NoError(t, err)
	}
	confirmations := len(f.mailer.Sent())

	resp, err := f.notifySvc.Send(ctx, organizer, &dto.SendNotificationRequest{EventID: ev.ID, Message: "Doors open at 18:00"})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, "Notifications sent successfully", resp.Message)

	updates := f.mailer.Sent()[confirmations:]
	require.Len(t, updates, 3)
	recipients := make([]string, 0, len(updates))
	for _, m := range updates {
		recipients = append(recipients, m.To)
		assert.Contains(t, m.Body, "Doors open at 18:00")
	}
	assert.ElementsMatch(t, []string{"alice@example.com", "bob@example.com", "carol@example.com"}, recipients)
	assert.Contains(t, f.publisher.Types(), constants.EventNotificationSent)
}

func TestNotificationService_SendPermissions(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "olga", constants.RoleOrganizer)
	other := f.user(t, "oscar", constants.RoleOrganizer)
	admin := f.user(t, "root", constants.RoleAdmin)
	ev := f.event(t, owner, f.category(t, "Tech").ID, 10, false)
	ctx := context.Background()
	req := &dto.SendNotificationRequest{EventID: ev.ID, Message: "hello"}

	_, err := f.notifySvc.Send(ctx, other, req)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	resp, err := f.notifySvc.Send(ctx, admin, req)
	require.NoError(t, err)
	assert.Zero(t, resp.Count)

	_, err = f.notifySvc.Send(ctx, admin, &dto.SendNotificationRequest{EventID: "missing", Message: "hello"})
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestNotificationService_ListAndMarkRead(t *testing.T) {
	f := newFixture(t)
	organizer := f.user(t, "olga", constants.RoleOrganizer)
	alice := f.user(t, "alice", "")
	bob := f.user(t, "bob", "")
	ev := f.event(t, organizer, f.category(t, "Tech").ID, 10, false)
	ctx := context.Background()

	_, err := f.registerSvc.Register(ctx, alice, ev.ID)
	require.NoError(t, err)
	_, err = f.notifySvc.Send(ctx, organizer, &dto.SendNotificationRequest{EventID: ev.ID, Message: "Venue changed"})
	require.NoError(t, err)

	mine, err := f.notifySvc.ListMine(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.False(t, mine[0].IsRead)
	assert.Equal(t, organizer.ID, mine[0].OrganizerID)
	require.NotNil(t, mine[0].Event)
	assert.Equal(t, ev.Title, mine[0].Event.Title)

	_, err = f.notifySvc.MarkRead(ctx, bob.ID, mine[0].ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	read, err := f.notifySvc.MarkRead(ctx, alice.ID, mine[0].ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	mine, err = f.notifySvc.ListMine(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, mine[0].IsRead, "read flag is persisted")

	_, err = f.notifySvc.MarkRead(ctx, alice.ID, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)
}
