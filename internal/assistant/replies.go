package assistant

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"playground/internal/domain"
)

const replyMenu = "I can help you with:\n\n📅 Booking stays\n✏️ Modifying bookings\n❌ Cancellations\n❓ FAQs (check-in times, policies, etc.)\n💬 Feedback & complaints\n\nWhat would you like to do?"

func (e *Engine) handleUnknown(*turn) *ChatResponse {
	return &ChatResponse{ReplyText: replyMenu, UI: chips("Book a stay", "Modify booking", "Cancel booking", "Help")}
}

// handleModification only shows the options; bookings are never changed here.
func (e *Engine) handleModification(t *turn) *ChatResponse {
	booking, err := e.firstConfirmed(t.ctx, t.user.Phone)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			e.logger.Error("booking lookup failed", zap.String("session_id", t.session.ID), zap.Error(err))
		}
		return &ChatResponse{
			ReplyText: "I couldn't find any confirmed bookings for your account. Would you like to make a new booking?",
			UI:        chips("Book a stay", "Help"),
		}
	}
	text := fmt.Sprintf("I found your booking:\n\nRef: %s\nPlace: %s\nCheck-in: %s\nRoom: %s\nGuests: %d\n\nWhat would you like to modify?",
		booking.Ref, booking.PlaceName, booking.CheckIn.Format(recordDate), booking.RoomType, booking.Guests)
	return &ChatResponse{ReplyText: text, UI: chips("Change dates", "Change room", "Add guests", "Cancel")}
}

func (e *Engine) handleFAQ(t *turn) *ChatResponse {
	return &ChatResponse{ReplyText: faqAnswer(t.entities.FAQKey), UI: chips("Book a stay", "More questions", "Thanks")}
}

func (e *Engine) handleFeedback(t *turn) *ChatResponse {
	e.logger.Info("feedback received",
		zap.String("session_id", t.session.ID),
		zap.String("user_id", t.user.Phone),
		zap.String("text", t.raw),
	)
	return &ChatResponse{
		ReplyText: "📝 Thank you for your feedback! Your input helps us improve. Your feedback has been recorded.",
		UI:        chips("Book a stay", "Help"),
	}
}

func (e *Engine) handleComplaint(t *turn) *ChatResponse {
	ticket := newRef(e.rand, "TKT")
	e.logger.Info("support ticket opened",
		zap.String("session_id", t.session.ID),
		zap.String("ticket", ticket),
		zap.String("text", t.raw),
	)
	return &ChatResponse{
		ReplyText: "🎧 I understand you need assistance. I've created a support ticket and our team will reach out shortly.\n\nTicket #" + ticket,
		UI:        chips("Thanks", "Urgent issue"),
	}
}

func (e *Engine) handleGoodbye(*turn) *ChatResponse {
	return &ChatResponse{ReplyText: "👋 Zo Zo! Thanks for chatting with me. Have a great day!"}
}
