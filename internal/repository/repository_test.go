package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/Payphone-Digital/eventhub/internal/model"
	"github.com/Payphone-Digital/eventhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()
	c := &model.Category{Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedEvent(t *testing.T, db *gorm.DB, organizerID, categoryID string, capacity int) *model.Event {
	t.Helper()
	e := &model.Event{
		Title:        "Go Meetup",
		Description:  "Monthly gathering",
		DateTime:     time.Now().Add(48 * time.Hour).UTC(),
		Location:     "Berlin",
		MaxAttendees: capacity,
		Status:       constants.EventStatusScheduled,
		OrganizerID:  organizerID,
		CategoryID:   categoryID,
	}
	require.NoError(t, db.Omit("Organizer", "Category").Create(e).Error)
	return e
}

func TestRegistrationRepository_CapacityAndDuplicates(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewRegistrationRepository(db)
	ctx := context.Background()

	org := seedUser(t, db, "org")
	cat := seedCategory(t, db, "Meetup")
	event := seedEvent(t, db, org.ID, cat.ID, 1)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	require.NoError(t, repo.CreateWithinCapacity(ctx, &model.Registration{UserID: alice.ID, EventID: event.ID, PaymentStatus: "PAID"}, event.MaxAttendees))

	err := repo.CreateWithinCapacity(ctx, &model.Registration{UserID: alice.ID, EventID: event.ID, PaymentStatus: "PAID"}, event.MaxAttendees)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	err = repo.CreateWithinCapacity(ctx, &model.Registration{UserID: bob.ID, EventID: event.ID, PaymentStatus: "PAID"}, event.MaxAttendees)
	assert.ErrorIs(t, err, ErrCapacityReached)

	counts, err := repo.CountByEvents(ctx, []string{event.ID, "missing"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, counts[event.ID])
	assert.Zero(t, counts["missing"])

	total, err := repo.Count(ctx, org.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	total, err = repo.Count(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPaymentRepository_RecordSuccessUpsertsRegistration(t *testing.T) {
	db := testutil.NewTestDB(t)
	payments := NewPaymentRepository(db)
	regs := NewRegistrationRepository(db)
	ctx := context.Background()

	org := seedUser(t, db, "org")
	cat := seedCategory(t, db, "Conference")
	event := seedEvent(t, db, org.ID, cat.ID, 10)
	alice := seedUser(t, db, "alice")

	require.NoError(t, regs.CreateWithinCapacity(ctx, &model.Registration{UserID: alice.ID, EventID: event.ID, PaymentStatus: constants.PaymentStatusPending}, 10))

	reg, err := payments.RecordSuccess(ctx, &model.PaymentTransaction{
		UserID: alice.ID, EventID: event.ID, Amount: 25, Status: constants.TransactionSuccess, Provider: "mock",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.PaymentStatusPaid, reg.PaymentStatus)

	stored, err := regs.GetByUserAndEvent(ctx, alice.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.PaymentStatusPaid, stored.PaymentStatus)

	history, err := payments.ListByUser(ctx, alice.ID, 20)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, event.Title, history[0].Event.Title)
}

func TestCategoryRepository_Favorites(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	a := seedCategory(t, db, "Workshop")
	b := seedCategory(t, db, "Seminar")

	fav, err := repo.AddFavorite(ctx, user.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Workshop", fav.Category.Name)

	_, err = repo.AddFavorite(ctx, user.ID, a.ID)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = repo.ReplaceFavorites(ctx, user.ID, []string{b.ID, "missing"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	ids, _ := repo.FavoriteIDs(ctx, user.ID)
	assert.Equal(t, []string{a.ID}, ids, "failed replace must leave favorites untouched")

	favs, err := repo.ReplaceFavorites(ctx, user.ID, []string{b.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, b.ID, favs[0].CategoryID)

	assert.ErrorIs(t, repo.RemoveFavorite(ctx, user.ID, a.ID), gorm.ErrRecordNotFound)
	assert.NoError(t, repo.RemoveFavorite(ctx, user.ID, b.ID))
}

func TestCategoryRepository_ListOrderedWithCounts(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	org := seedUser(t, db, "org")
	w := seedCategory(t, db, "Workshop")
	seedCategory(t, db, "Conference")
	seedEvent(t, db, org.ID, w.ID, 5)
	seedEvent(t, db, org.ID, w.ID, 5)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Conference", list[0].Name)

	counts, err := repo.EventCounts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[w.ID])
}

func TestEventRepository_ListFiltersAndPaginates(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	org := seedUser(t, db, "org")
	other := seedUser(t, db, "other")
	cat := seedCategory(t, db, "Meetup")
	for i := 0; i < 3; i++ {
		seedEvent(t, db, org.ID, cat.ID, 5)
	}
	seedEvent(t, db, other.ID, cat.ID, 5)

	events, total, err := repo.List(ctx, EventFilter{OrganizerID: org.ID}, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, events, 2)
	assert.Equal(t, "org", events[0].Organizer.Username)
	assert.Equal(t, "Meetup", events[0].Category.Name)

	_, total, err = repo.List(ctx, EventFilter{Status: constants.EventStatusCanceled}, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestEventRepository_DeleteCascade(t *testing.T) {
	db := testutil.NewTestDB(t)
	events := NewEventRepository(db)
	regs := NewRegistrationRepository(db)
	ctx := context.Background()

	org := seedUser(t, db, "org")
	alice := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "Meetup")
	event := seedEvent(t, db, org.ID, cat.ID, 5)

	require.NoError(t, regs.CreateWithinCapacity(ctx, &model.Registration{UserID: alice.ID, EventID: event.ID, PaymentStatus: "PAID"}, 5))
	require.NoError(t, db.Create(&model.Notification{UserID: alice.ID, OrganizerID: org.ID, EventID: event.ID, Message: "hi"}).Error)

	require.NoError(t, events.DeleteCascade(ctx, event.ID))
	assert.ErrorIs(t, events.DeleteCascade(ctx, event.ID), gorm.ErrRecordNotFound)

	var n int64
	db.Model(&model.Registration{}).Count(&n)
	assert.Zero(t, n)
	db.Model(&model.Notification{}).Count(&n)
	assert.Zero(t, n)
}

func TestUserRepository_DeleteCascade(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := NewUserRepository(db)
	regs := NewRegistrationRepository(db)
	tokens := NewRefreshTokenRepository(db, time.Hour)
	ctx := context.Background()

	org := seedUser(t, db, "org")
	alice := seedUser(t, db, "alice")
	cat := seedCategory(t, db, "Meetup")
	orgEvent := seedEvent(t, db, org.ID, cat.ID, 5)

	_, err := tokens.Save(ctx, org.ID, "org-token")
	require.NoError(t, err)
	require.NoError(t, regs.CreateWithinCapacity(ctx, &model.Registration{UserID: alice.ID, EventID: orgEvent.ID, PaymentStatus: "PAID"}, 5))

	require.NoError(t, users.DeleteCascade(ctx, org.ID))

	_, err = users.GetByID(ctx, org.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var n int64
	db.Model(&model.Event{}).Count(&n)
	assert.Zero(t, n, "organized events go with their organizer")
	db.Model(&model.Registration{}).Count(&n)
	assert.Zero(t, n, "registrations on those events go too")
	db.Model(&model.RefreshToken{}).Count(&n)
	assert.Zero(t, n)

	_, err = users.GetByID(ctx, alice.ID)
	assert.NoError(t, err)
}

func TestUserRepository_Lookups(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")

	exists, err := users.ExistsByEmailOrUsername(ctx, "other@example.com", "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	taken, err := users.UsernameTaken(ctx, "alice", alice.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	updated, err := users.UpdateProfile(ctx, alice.ID, map[string]interface{}{"bio": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.Bio)

	_, err = users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
