package assistant

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"playground/internal/domain"
)

func (e *Engine) handlePaymentSuccess(t *turn) *ChatResponse {
	ref := t.entities.PaymentRef
	payment, err := e.repo.FindPaymentByRef(t.ctx, ref)
	if err != nil {
		e.lostCallback(t, ref, err)
		return e.handleUnknown(t)
	}
	booking, err := e.repo.GetBooking(t.ctx, payment.BookingID)
	if err != nil {
		e.lostCallback(t, ref, err)
		return e.handleUnknown(t)
	}

	switch {
	case payment.Status == domain.PaymentPending && booking.Status == domain.BookingPendingPayment:
		payment.Status = domain.PaymentSuccess
		payment.UpdatedAt = t.now
		booking.Status = domain.BookingConfirmed
		booking.UpdatedAt = t.now
		e.savePayment(t.ctx, payment)
		e.saveBooking(t.ctx, booking)
		e.logger.Info("booking confirmed",
			zap.String("session_id", t.session.ID),
			zap.String("booking_ref", booking.Ref),
			zap.String("payment_ref", payment.Ref),
		)
	case payment.Status == domain.PaymentSuccess && booking.Status == domain.BookingConfirmed:
		e.logger.Info("repeated payment callback", zap.String("payment_ref", ref))
	default:
		e.logger.Warn("payment callback for settled booking",
			zap.String("payment_ref", ref),
			zap.String("payment_status", string(payment.Status)),
			zap.String("booking_status", string(booking.Status)),
		)
		return e.handleUnknown(t)
	}

	t.session.State = domain.StateIdle
	t.session.Context = domain.BookingContext{}

	text := fmt.Sprintf("✅ Payment successful!\n\n🎉 Booking confirmed!\n\nBooking Reference: %s\nPlace: %s\nCheck-in: %s\nCheck-out: %s\nRoom: %s\nGuests: %d\n\nYou'll receive a confirmation email shortly. Have a great stay!",
		booking.Ref, booking.PlaceName, booking.CheckIn.Format(recordDate), booking.CheckOut.Format(recordDate), booking.RoomType, booking.Guests)
	return &ChatResponse{ReplyText: text, UI: chips("Book another", "View policy", "Help")}
}

// lostCallback logs a success signal that matched nothing. The user still
// gets the generic menu.
func (e *Engine) lostCallback(t *turn, ref string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		e.logger.Warn("payment callback for unknown reference",
			zap.String("session_id", t.session.ID),
			zap.String("payment_ref", ref),
		)
		return
	}
	e.logger.Error("payment lookup failed",
		zap.String("session_id", t.session.ID),
		zap.String("payment_ref", ref),
		zap.Error(err),
	)
}

// handlePaymentFailed never touches the booking or payment records.
func (e *Engine) handlePaymentFailed(t *turn) *ChatResponse {
	e.logger.Info("payment failed", zap.String("session_id", t.session.ID), zap.String("payment_ref", t.entities.PaymentRef))
	t.session.State = domain.StateIdle
	t.session.Context = domain.BookingContext{}
	return &ChatResponse{
		ReplyText: "❌ Payment failed. Would you like to try again?",
		UI:        chips("Retry payment", "Cancel booking", "Help"),
	}
}
