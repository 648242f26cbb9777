package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/beworking/beworking-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newBookingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Booking{}))
	return conn
}

func seedBooking(t *testing.T, repo *Repository, userID uuid.UUID, date time.Time, start, end string) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		UserID:    userID,
		Product:   "meeting-room",
		Date:      date,
		StartHour: start,
		EndHour:   end,
		Attendees: 2,
	}
	require.NoError(t, repo.Create(context.Background(), booking))
	return booking
}

func TestRepositoryCreateAssignsID(t *testing.T) {
	repo := NewRepository(newBookingsTestDB(t))

	booking := seedBooking(t, repo, uuid.New(), time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), "09:00", "11:00")
	require.NotEqual(t, uuid.Nil, booking.ID)

	got, err := repo.FindByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "meeting-room", got.Product)
	assert.Equal(t, "09:00", got.StartHour)
}

func TestRepositoryListByUserOrdering(t *testing.T) {
	repo := NewRepository(newBookingsTestDB(t))
	userID := uuid.New()

	early := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	seedBooking(t, repo, userID, early, "14:00", "15:00")
	seedBooking(t, repo, userID, late, "16:00", "17:00")
	seedBooking(t, repo, userID, late, "09:00", "10:00")
	seedBooking(t, repo, uuid.New(), late, "09:00", "10:00")

	rows, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.True(t, rows[0].Date.Equal(late))
	assert.Equal(t, "09:00", rows[0].StartHour)
	assert.Equal(t, "16:00", rows[1].StartHour)
	assert.True(t, rows[2].Date.Equal(early))
}

func TestRepositoryDeleteScopedToOwner(t *testing.T) {
	repo := NewRepository(newBookingsTestDB(t))
	owner := uuid.New()
	booking := seedBooking(t, repo, owner, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), "10:00", "12:00")

	affected, err := repo.Delete(context.Background(), booking.ID, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, affected, "foreign user must not delete the booking")

	affected, err = repo.Delete(context.Background(), booking.ID, owner)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	_, err = repo.FindByID(context.Background(), booking.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
