// Package storetest holds the behaviour every domain.Repository back-end must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playground/internal/domain"
)

// Run exercises a fresh repository returned by newRepo.
func Run(t *testing.T, newRepo func(t *testing.T) domain.Repository) {
	t.Run("session round trip", func(t *testing.T) { sessionRoundTrip(t, newRepo(t)) })
	t.Run("bookings by user", func(t *testing.T) { bookingsByUser(t, newRepo(t)) })
	t.Run("payments", func(t *testing.T) { payments(t, newRepo(t)) })
	t.Run("transcript", func(t *testing.T) { transcript(t, newRepo(t)) })
	t.Run("not found", func(t *testing.T) { notFound(t, newRepo(t)) })
}

var base = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func sessionRoundTrip(t *testing.T, repo domain.Repository) {
	ctx := context.Background()
	in := &domain.Session{
		ID:      "s1",
		UserID:  "+100",
		State:   domain.StateAwaitingConfirmation,
		Strikes: 1,
		Active:  true,
		Context: domain.BookingContext{
			Place:  "Place 2",
			Guests: 2,
			RoomOptions: []domain.RoomOption{
				{Letter: "A", RoomType: "Private Room", PricePerNight: 2450, Nights: 2, Total: 4900},
			},
			CheckIn:  base.AddDate(0, 0, 1),
			CheckOut: base.AddDate(0, 0, 3),
		},
		CreatedAt: base,
		UpdatedAt: base,
	}
	require.NoError(t, repo.SaveSession(ctx, in))

	got, err := repo.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, in.State, got.State)
	assert.Equal(t, in.Strikes, got.Strikes)
	assert.True(t, got.Active)
	assert.Equal(t, in.Context.RoomOptions, got.Context.RoomOptions)
	assert.True(t, in.Context.CheckIn.Equal(got.Context.CheckIn))

	got.State = domain.StateIdle
	got.Active = false
	require.NoError(t, repo.SaveSession(ctx, got))
	again, err := repo.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, again.State)
	assert.False(t, again.Active)
}

func booking(id, ref, user string, status domain.BookingStatus, created time.Time) *domain.Booking {
	return &domain.Booking{
		ID: id, Ref: ref, UserID: user, PlaceID: "2", PlaceName: "Place 2",
		CheckIn: created.AddDate(0, 0, 5), CheckOut: created.AddDate(0, 0, 7),
		RoomType: "Mixed Dorm", Guests: 2, Status: status, TotalAmount: 1800,
		CreatedAt: created, UpdatedAt: created,
	}
}

func bookingsByUser(t *testing.T, repo domain.Repository) {
	ctx := context.Background()
	require.NoError(t, repo.SaveBooking(ctx, booking("b1", "BK-AAAAAA", "u1", domain.BookingPendingPayment, base)))
	require.NoError(t, repo.SaveBooking(ctx, booking("b2", "BK-BBBBBB", "u1", domain.BookingConfirmed, base.Add(time.Minute))))
	require.NoError(t, repo.SaveBooking(ctx, booking("b3", "BK-CCCCCC", "u2", domain.BookingConfirmed, base.Add(2*time.Minute))))
	require.NoError(t, repo.SaveBooking(ctx, booking("b4", "BK-DDDDDD", "u1", domain.BookingConfirmed, base.Add(3*time.Minute))))

	confirmed, err := repo.ListBookingsByUser(ctx, "u1", domain.BookingConfirmed)
	require.NoError(t, err)
	require.Len(t, confirmed, 2)
	assert.Equal(t, "BK-BBBBBB", confirmed[0].Ref)
	assert.Equal(t, "BK-DDDDDD", confirmed[1].Ref)

	all, err := repo.ListBookingsByUser(ctx, "u1", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Status updates keep creation order.
	b1, err := repo.FindBookingByRef(ctx, "BK-AAAAAA")
	require.NoError(t, err)
	b1.Status = domain.BookingConfirmed
	b1.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, repo.SaveBooking(ctx, b1))

	confirmed, err = repo.ListBookingsByUser(ctx, "u1", domain.BookingConfirmed)
	require.NoError(t, err)
	require.Len(t, confirmed, 3)
	assert.Equal(t, "BK-AAAAAA", confirmed[0].Ref)

	got, err := repo.GetBooking(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)
	assert.Equal(t, 1800, got.TotalAmount)
	assert.True(t, got.CheckIn.Equal(base.AddDate(0, 0, 5)))

	none, err := repo.ListBookingsByUser(ctx, "nobody", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func payments(t *testing.T, repo domain.Repository) {
	ctx := context.Background()
	p := &domain.Payment{ID: "p1", Ref: "PAY-XYZ123", BookingID: "b1", Status: domain.PaymentPending, Amount: 4800, CreatedAt: base, UpdatedAt: base}
	require.NoError(t, repo.SavePayment(ctx, p))

	got, err := repo.FindPaymentByRef(ctx, "PAY-XYZ123")
	require.NoError(t, err)
	assert.Equal(t, "b1", got.BookingID)
	assert.Equal(t, 4800, got.Amount)

	got.Status = domain.PaymentSuccess
	require.NoError(t, repo.SavePayment(ctx, got))
	got, err = repo.FindPaymentByRef(ctx, "PAY-XYZ123")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentSuccess, got.Status)
}

func transcript(t *testing.T, repo domain.Repository) {
	ctx := context.Background()
	for i, text := range []string{"hi", "menu", "book", "options"} {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		require.NoError(t, repo.AppendMessage(ctx, domain.Message{
			SessionID: "s1", Role: role, Text: text, CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, repo.AppendMessage(ctx, domain.Message{SessionID: "s2", Role: domain.RoleUser, Text: "other", CreatedAt: base}))

	all, err := repo.ListMessages(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "hi", all[0].Text)
	assert.Equal(t, domain.RoleAssistant, all[3].Role)

	last, err := repo.ListMessages(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "book", last[0].Text)
	assert.Equal(t, "options", last[1].Text)

	empty, err := repo.ListMessages(ctx, "missing", 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func notFound(t *testing.T, repo domain.Repository) {
	ctx := context.Background()
	_, err := repo.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.GetBooking(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.FindBookingByRef(ctx, "BK-NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.FindPaymentByRef(ctx, "PAY-NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
