package domain

import "time"

// SessionState is the dialogue state of a single conversation.
type SessionState string

const (
	StateIdle                 SessionState = "IDLE"
	StateAwaitingConfirmation SessionState = "BOOKING_AWAITING_CONFIRMATION"
	StatePaymentPending       SessionState = "BOOKING_PAYMENT_PENDING"
	StateCancellationConfirm  SessionState = "CANCELLATION_CONFIRM"
)

// MaxStrikes is the strike count at which a session is deactivated.
const MaxStrikes = 3

// RoomOption is one priced room offered to the user during booking.
type RoomOption struct {
	Letter        string `json:"letter"`
	RoomType      string `json:"room_type"`
	PricePerNight int    `json:"price_per_night"`
	Nights        int    `json:"nights"`
	Total         int    `json:"total"`
}

// BookingContext carries the in-progress workflow fields of a session.
type BookingContext struct {
	Place       string       `json:"place,omitempty"`
	RoomType    string       `json:"room_type,omitempty"`
	Guests      int          `json:"guests,omitempty"`
	RoomOptions []RoomOption `json:"room_options,omitempty"`
	CheckIn     time.Time    `json:"checkin,omitempty"`
	CheckOut    time.Time    `json:"checkout,omitempty"`
	BookingID   string       `json:"booking_id,omitempty"`
	PaymentRef  string       `json:"payment_ref,omitempty"`
	BookingRef  string       `json:"booking_ref,omitempty"`
}

// Session is one conversation between a user and the assistant.
// Active=false is a tombstone: the session refuses further processing.
type Session struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	State     SessionState   `json:"state"`
	Context   BookingContext `json:"context"`
	Strikes   int            `json:"strikes"`
	Active    bool           `json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type BookingStatus string

const (
	BookingPendingPayment BookingStatus = "PENDING_PAYMENT"
	BookingConfirmed      BookingStatus = "CONFIRMED"
	BookingCancelled      BookingStatus = "CANCELLED"
)

// Booking is a reservation created when the user picks a room option.
type Booking struct {
	ID          string        `json:"id"`
	Ref         string        `json:"booking_ref"`
	UserID      string        `json:"user_id"`
	PlaceID     string        `json:"place_id"`
	PlaceName   string        `json:"place_name"`
	CheckIn     time.Time     `json:"checkin"`
	CheckOut    time.Time     `json:"checkout"`
	RoomType    string        `json:"room_type"`
	Guests      int           `json:"guests"`
	Status      BookingStatus `json:"status"`
	TotalAmount int           `json:"total_amount"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Payment is the single open payment attached to a booking.
type Payment struct {
	ID        string        `json:"id"`
	Ref       string        `json:"payment_ref"`
	BookingID string        `json:"booking_id"`
	Status    PaymentStatus `json:"status"`
	Amount    int           `json:"amount"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one rendered line of a session transcript.
type Message struct {
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
