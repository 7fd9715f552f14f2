package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRules_Order(t *testing.T) {
	var got []Intent
	for _, r := range Rules() {
		got = append(got, r.Intent)
	}
	assert.Equal(t, []Intent{
		IntentPaymentSuccess,
		IntentPaymentFailed,
		IntentBooking,
		IntentModification,
		IntentCancellation,
		IntentFeedback,
		IntentComplaint,
		IntentGoodbye,
		IntentBookingConfirm,
		IntentFAQ,
	}, got)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		text   string
		intent Intent
		check  func(t *testing.T, e Entities)
	}{
		{text: "payment_success PAY-ABC123", intent: IntentPaymentSuccess, check: func(t *testing.T, e Entities) {
			assert.Equal(t, "PAY-ABC123", e.PaymentRef)
		}},
		{text: "my payment_failed again", intent: IntentPaymentFailed},
		{text: "book and cancel", intent: IntentBooking},
		{text: "change my booking", intent: IntentBooking},
		{text: "3 guests in Place 4, Female Dorm reservation", intent: IntentBooking, check: func(t *testing.T, e Entities) {
			assert.Equal(t, "Place 4", e.Place)
			assert.Equal(t, RoomFemaleDorm, e.RoomType)
			assert.Equal(t, 3, e.Guests)
		}},
		{text: "Book 2 PAX", intent: IntentBooking, check: func(t *testing.T, e Entities) {
			assert.Equal(t, 2, e.Guests)
		}},
		{text: "update please", intent: IntentModification},
		{text: "cancel and change", intent: IntentModification},
		{text: "cancel bk-abc123 now", intent: IntentCancellation, check: func(t *testing.T, e Entities) {
			assert.Equal(t, "BK-ABC123", e.BookingRef)
		}},
		{text: "tell me the cancellation policy", intent: IntentFAQ, check: func(t *testing.T, e Entities) {
			assert.Equal(t, "cancellation policy", e.FAQKey)
		}},
		{text: "leave a review", intent: IntentFeedback},
		{text: "feedback: help me", intent: IntentFeedback},
		{text: "I have a problem", intent: IntentComplaint},
		{text: "help, thanks", intent: IntentComplaint},
		{text: "thank you", intent: IntentGoodbye},
		{text: "goodbye, select_option_a", intent: IntentGoodbye},
		{text: "SELECT_OPTION_B", intent: IntentBookingConfirm, check: func(t *testing.T, e Entities) {
			assert.Equal(t, "B", e.Option)
		}},
		{text: "select_option_b", intent: IntentBookingConfirm, check: func(t *testing.T, e Entities) {
			assert.Empty(t, e.Option)
		}},
		{text: "what is the check-in time", intent: IntentFAQ, check: func(t *testing.T, e Entities) {
			assert.Equal(t, "check-in time", e.FAQKey)
		}},
		{text: "Is check-out time is 11:00 AM right", intent: IntentFAQ, check: func(t *testing.T, e Entities) {
			assert.Equal(t, "check-out time", e.FAQKey)
		}},
		{text: "are pets ok", intent: IntentFAQ},
		{text: "smoking area?", intent: IntentFAQ},
		{text: "hi there", intent: IntentUnknown},
		{text: "", intent: IntentUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			intent, e := Classify(NewInput(tt.text, testNow))
			assert.Equal(t, tt.intent, intent)
			if tt.check != nil {
				tt.check(t, e)
			}
		})
	}
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		text string
		want Event
	}{
		{"PAYMENT_SUCCESS PAY-ABC123", PaymentResult{Ref: "PAY-ABC123", Outcome: OutcomeSuccess}},
		{"payment_failed PAY-ABC123", PaymentResult{Ref: "PAY-ABC123", Outcome: OutcomeFailed}},
		{"  PAYMENT_SUCCESS   PAY-1  ", PaymentResult{Ref: "PAY-1", Outcome: OutcomeSuccess}},
		{"PAYMENT_SUCCESS", UserText{Body: "PAYMENT_SUCCESS"}},
		{"my PAYMENT_SUCCESS PAY-1", UserText{Body: "my PAYMENT_SUCCESS PAY-1"}},
		{"book a room", UserText{Body: "book a room"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEvent(tt.text))
		})
	}
	assert.Equal(t, "PAYMENT_FAILED PAY-9", PaymentResult{Ref: "PAY-9", Outcome: OutcomeFailed}.Text())
}

func TestParseCheckIn(t *testing.T) {
	saturday := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name string
		text string
		now  time.Time
		want time.Time
		ok   bool
	}{
		{"tomorrow", "tomorrow please", testNow, day(2026, 3, 12), true},
		{"next weekend midweek", "next weekend", testNow, day(2026, 3, 14), true},
		{"next weekend on saturday", "next weekend", saturday, day(2026, 3, 21), true},
		{"month/day ahead", "on 3/20", testNow, day(2026, 3, 20), true},
		{"month-day today", "3-11", testNow, day(2026, 3, 11), true},
		{"month/day passed", "1/5", testNow, day(2027, 1, 5), true},
		{"invalid month", "13/4", testNow, time.Time{}, false},
		{"invalid day", "2/30", testNow, time.Time{}, false},
		{"nothing", "whenever", testNow, time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseCheckIn(tt.text, tt.now)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestContainsProfanity(t *testing.T) {
	assert.True(t, ContainsProfanity("What the HELL"))
	assert.True(t, ContainsProfanity("hello"))
	assert.False(t, ContainsProfanity("book a private room"))
	assert.False(t, ContainsProfanity(""))
}
