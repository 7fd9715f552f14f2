package assistant

import (
	"fmt"

	"go.uber.org/zap"

	"playground/internal/domain"
)

// handleBooking serves both booking and booking_confirm. A resolvable option
// letter while options are on offer reserves the room; anything else starts
// a fresh search.
func (e *Engine) handleBooking(t *turn) *ChatResponse {
	if t.session.State == domain.StateAwaitingConfirmation && t.entities.Option != "" {
		if resp, ok := e.selectOption(t); ok {
			return resp
		}
	}
	return e.offerRooms(t)
}

func (e *Engine) offerRooms(t *turn) *ChatResponse {
	place := t.entities.Place
	if place == "" {
		place = e.defaultPlace
	}
	guests := t.entities.Guests
	if guests == 0 {
		guests = e.defaultGuests
	}
	checkIn := t.entities.CheckIn
	if checkIn.IsZero() {
		checkIn = startOfDay(t.now).AddDate(0, 0, 1)
	}
	checkOut := checkIn.AddDate(0, 0, e.nights)

	types := RoomTypes
	if t.entities.RoomType != "" {
		types = []string{t.entities.RoomType}
	}
	options := make([]domain.RoomOption, 0, len(types))
	cards := make([]OptionCard, 0, len(types))
	for i, rt := range types {
		letter := string(rune('A' + i))
		price := BasePrice(rt) + e.rand.IntN(PriceJitter)
		opt := domain.RoomOption{
			Letter:        letter,
			RoomType:      rt,
			PricePerNight: price,
			Nights:        e.nights,
			Total:         price * e.nights,
		}
		options = append(options, opt)
		cards = append(cards, OptionCard{
			Title:         rt,
			Subtitle:      fmt.Sprintf("%s/night • Total %s for %d nights", rupees(opt.PricePerNight), rupees(opt.Total), opt.Nights),
			ActionLabel:   "Select " + letter,
			ActionPayload: "SELECT_OPTION_" + letter,
		})
	}

	t.session.State = domain.StateAwaitingConfirmation
	t.session.Context = domain.BookingContext{
		Place:       place,
		RoomType:    t.entities.RoomType,
		Guests:      guests,
		RoomOptions: options,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
	}

	plural := ""
	if guests > 1 {
		plural = "s"
	}
	text := fmt.Sprintf("Great! I found these options at %s for %d guest%s:\n\nCheck-in: %s\nCheck-out: %s (%d nights)\n\nPlease select your preferred option:",
		place, guests, plural, checkIn.Format(displayDate), checkOut.Format(displayDate), e.nights)
	return &ChatResponse{ReplyText: text, UI: &UI{OptionCards: cards}}
}

func (e *Engine) selectOption(t *turn) (*ChatResponse, bool) {
	bc := t.session.Context
	idx := int(t.entities.Option[0] - 'A')
	if idx < 0 || idx >= len(bc.RoomOptions) {
		return nil, false
	}
	opt := bc.RoomOptions[idx]

	placeID := bc.Place
	if p, ok := findPlace(bc.Place); ok {
		placeID = p.ID
	}
	booking := &domain.Booking{
		ID:          newID(t.now),
		Ref:         newRef(e.rand, "BK"),
		UserID:      t.user.Phone,
		PlaceID:     placeID,
		PlaceName:   bc.Place,
		CheckIn:     bc.CheckIn,
		CheckOut:    bc.CheckOut,
		RoomType:    opt.RoomType,
		Guests:      bc.Guests,
		Status:      domain.BookingPendingPayment,
		TotalAmount: opt.Total,
		CreatedAt:   t.now,
		UpdatedAt:   t.now,
	}
	payment := &domain.Payment{
		ID:        newID(t.now),
		Ref:       newRef(e.rand, "PAY"),
		BookingID: booking.ID,
		Status:    domain.PaymentPending,
		Amount:    opt.Total,
		CreatedAt: t.now,
		UpdatedAt: t.now,
	}
	e.saveBooking(t.ctx, booking)
	e.savePayment(t.ctx, payment)
	e.logger.Info("booking reserved",
		zap.String("session_id", t.session.ID),
		zap.String("booking_ref", booking.Ref),
		zap.String("payment_ref", payment.Ref),
		zap.Int("amount", payment.Amount),
	)

	bc.BookingID = booking.ID
	bc.BookingRef = booking.Ref
	bc.PaymentRef = payment.Ref
	t.session.Context = bc
	t.session.State = domain.StatePaymentPending

	total := rupees(opt.Total)
	return &ChatResponse{
		ReplyText: fmt.Sprintf("Perfect! I've reserved %s at %s.\n\nTotal: %s\n\nPlease complete the payment to confirm your booking.",
			opt.RoomType, booking.PlaceName, total),
		UI: &UI{PaymentLink: &PaymentLink{
			URL:         e.paymentBaseURL + payment.Ref,
			Title:       "Complete Payment",
			Description: fmt.Sprintf("Pay %s to confirm booking", total),
		}},
	}, true
}
