package sqlite

import (
	"time"

	"gorm.io/datatypes"

	"playground/internal/domain"
)

type sessionRow struct {
	ID        string                                    `gorm:"type:varchar(64);primaryKey"`
	UserID    string                                    `gorm:"type:varchar(64);index;not null"`
	State     string                                    `gorm:"type:varchar(40);not null"`
	Context   datatypes.JSONType[domain.BookingContext] `gorm:"not null"`
	Strikes   int                                       `gorm:"not null"`
	Active    bool                                      `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (sessionRow) TableName() string { return "sessions" }

type bookingRow struct {
	ID          string    `gorm:"type:varchar(26);primaryKey"`
	Ref         string    `gorm:"type:varchar(16);uniqueIndex;not null"`
	UserID      string    `gorm:"type:varchar(64);index:idx_bookings_user_status,priority:1;not null"`
	Status      string    `gorm:"type:varchar(20);index:idx_bookings_user_status,priority:2;not null"`
	PlaceID     string    `gorm:"type:varchar(8);not null"`
	PlaceName   string    `gorm:"type:varchar(64);not null"`
	CheckIn     time.Time `gorm:"not null"`
	CheckOut    time.Time `gorm:"not null"`
	RoomType    string    `gorm:"type:varchar(32);not null"`
	Guests      int       `gorm:"not null"`
	TotalAmount int       `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (bookingRow) TableName() string { return "bookings" }

type paymentRow struct {
	Ref       string `gorm:"type:varchar(16);primaryKey"`
	ID        string `gorm:"type:varchar(26);uniqueIndex;not null"`
	BookingID string `gorm:"type:varchar(26);index;not null"`
	Status    string `gorm:"type:varchar(16);not null"`
	Amount    int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (paymentRow) TableName() string { return "payments" }

type messageRow struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	SessionID string    `gorm:"type:varchar(64);index;not null"`
	Role      string    `gorm:"type:varchar(16);not null"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (messageRow) TableName() string { return "messages" }

func fromSession(s *domain.Session) *sessionRow {
	return &sessionRow{
		ID:        s.ID,
		UserID:    s.UserID,
		State:     string(s.State),
		Context:   datatypes.NewJSONType(s.Context),
		Strikes:   s.Strikes,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (r *sessionRow) toDomain() *domain.Session {
	return &domain.Session{
		ID:        r.ID,
		UserID:    r.UserID,
		State:     domain.SessionState(r.State),
		Context:   r.Context.Data(),
		Strikes:   r.Strikes,
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func fromBooking(b *domain.Booking) *bookingRow {
	return &bookingRow{
		ID:          b.ID,
		Ref:         b.Ref,
		UserID:      b.UserID,
		Status:      string(b.Status),
		PlaceID:     b.PlaceID,
		PlaceName:   b.PlaceName,
		CheckIn:     b.CheckIn,
		CheckOut:    b.CheckOut,
		RoomType:    b.RoomType,
		Guests:      b.Guests,
		TotalAmount: b.TotalAmount,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (r *bookingRow) toDomain() domain.Booking {
	return domain.Booking{
		ID:          r.ID,
		Ref:         r.Ref,
		UserID:      r.UserID,
		PlaceID:     r.PlaceID,
		PlaceName:   r.PlaceName,
		CheckIn:     r.CheckIn,
		CheckOut:    r.CheckOut,
		RoomType:    r.RoomType,
		Guests:      r.Guests,
		Status:      domain.BookingStatus(r.Status),
		TotalAmount: r.TotalAmount,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func fromPayment(p *domain.Payment) *paymentRow {
	return &paymentRow{
		Ref:       p.Ref,
		ID:        p.ID,
		BookingID: p.BookingID,
		Status:    string(p.Status),
		Amount:    p.Amount,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r *paymentRow) toDomain() *domain.Payment {
	return &domain.Payment{
		ID:        r.ID,
		Ref:       r.Ref,
		BookingID: r.BookingID,
		Status:    domain.PaymentStatus(r.Status),
		Amount:    r.Amount,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
