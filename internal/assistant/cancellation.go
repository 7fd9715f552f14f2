package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"playground/internal/domain"
)

// Refund is the share of the booking total returned on cancellation.
type Refund struct {
	Percent int
	Policy  string
}

// RefundFor applies the tiers: more than 48h before check-in is free, more
// than 24h costs one night (50%), anything later is not refunded.
func RefundFor(checkIn, now time.Time) Refund {
	hours := checkIn.Sub(now).Hours()
	switch {
	case hours > 48:
		return Refund{Percent: 100, Policy: "free cancellation (>48h before check-in)"}
	case hours > 24:
		return Refund{Percent: 50, Policy: "1 night charged (48-24h before check-in)"}
	default:
		return Refund{Percent: 0, Policy: "no refund (<24h before check-in)"}
	}
}

const replyBookingNotFound = "I couldn't find that booking. Please provide your booking reference (e.g., BK-ABC123)."

func (e *Engine) handleCancellation(t *turn) *ChatResponse {
	remembered := t.session.Context.BookingRef
	if t.session.State == domain.StateCancellationConfirm && remembered != "" &&
		strings.EqualFold(t.raw, "CANCEL") {
		return e.confirmCancellation(t, remembered)
	}

	booking, err := e.findCancellable(t.ctx, t.user.Phone, t.entities.BookingRef)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			e.logger.Error("booking lookup failed", zap.String("session_id", t.session.ID), zap.Error(err))
		}
		return &ChatResponse{ReplyText: replyBookingNotFound, UI: chips("View my bookings", "Help")}
	}
	if booking.Status != domain.BookingConfirmed {
		return &ChatResponse{
			ReplyText: fmt.Sprintf("Booking %s is %s and can't be cancelled. Only confirmed bookings can be cancelled.",
				booking.Ref, strings.ToLower(strings.ReplaceAll(string(booking.Status), "_", " "))),
			UI: chips("Book a stay", "Help"),
		}
	}

	refund := RefundFor(booking.CheckIn, t.now)
	t.session.State = domain.StateCancellationConfirm
	t.session.Context = domain.BookingContext{BookingRef: booking.Ref}

	text := fmt.Sprintf("⚠️ Cancellation Details:\n\nBooking: %s\nPlace: %s\nAmount: %s\n\nRefund: %d%% (%s)\n\n⚠️ To confirm cancellation, type: CANCEL",
		booking.Ref, booking.PlaceName, rupees(booking.TotalAmount), refund.Percent, refund.Policy)
	return &ChatResponse{ReplyText: text, UI: chips("CANCEL", "Keep booking")}
}

// findCancellable looks up ref, or the user's oldest confirmed booking when ref is empty.
func (e *Engine) findCancellable(ctx context.Context, userID, ref string) (*domain.Booking, error) {
	if ref != "" {
		return e.repo.FindBookingByRef(ctx, ref)
	}
	return e.firstConfirmed(ctx, userID)
}

func (e *Engine) firstConfirmed(ctx context.Context, userID string) (*domain.Booking, error) {
	bookings, err := e.repo.ListBookingsByUser(ctx, userID, domain.BookingConfirmed)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, domain.ErrNotFound
	}
	return &bookings[0], nil
}

func (e *Engine) confirmCancellation(t *turn, ref string) *ChatResponse {
	t.session.State = domain.StateIdle
	t.session.Context = domain.BookingContext{}

	booking, err := e.repo.FindBookingByRef(t.ctx, ref)
	if err != nil || booking.Status != domain.BookingConfirmed {
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			e.logger.Error("booking lookup failed", zap.String("booking_ref", ref), zap.Error(err))
		}
		return &ChatResponse{ReplyText: replyBookingNotFound, UI: chips("View my bookings", "Help")}
	}

	refund := RefundFor(booking.CheckIn, t.now)
	booking.Status = domain.BookingCancelled
	booking.UpdatedAt = t.now
	e.saveBooking(t.ctx, booking)
	e.logger.Info("booking cancelled",
		zap.String("session_id", t.session.ID),
		zap.String("booking_ref", booking.Ref),
		zap.Int("refund_percent", refund.Percent),
	)

	text := fmt.Sprintf("✅ Booking %s has been cancelled.\n\nRefund: %d%% of total amount\nPolicy: %s\n\nYou'll receive the refund in 3-5 business days.",
		booking.Ref, refund.Percent, refund.Policy)
	return &ChatResponse{ReplyText: text, UI: chips("Book again", "Help")}
}
