// Package sqlite stores assistant records in an embedded SQLite database
// through GORM.
package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"playground/internal/domain"
)

type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open opens (or creates) the database at path and migrates the schema.
func Open(path string, logger *zap.Logger) (*Repository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return NewRepository(db, logger)
}

// NewRepository migrates the schema on an existing connection.
func NewRepository(db *gorm.DB, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return &Repository{db: db, logger: logger.Named("store.sqlite")}, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&sessionRow{}, &bookingRow{}, &paymentRow{}, &messageRow{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func upsert(ctx context.Context, db *gorm.DB, row any) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error
}

func (r *Repository) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	var row sessionRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return row.toDomain(), nil
}

func (r *Repository) SaveSession(ctx context.Context, session *domain.Session) error {
	if err := upsert(ctx, r.db, fromSession(session)); err != nil {
		return fmt.Errorf("save session %s: %w", session.ID, err)
	}
	return nil
}

func (r *Repository) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	var row bookingRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	b := row.toDomain()
	return &b, nil
}

func (r *Repository) FindBookingByRef(ctx context.Context, ref string) (*domain.Booking, error) {
	var row bookingRow
	if err := r.db.WithContext(ctx).First(&row, "ref = ?", ref).Error; err != nil {
		return nil, notFound(err)
	}
	b := row.toDomain()
	return &b, nil
}

// ListBookingsByUser orders by creation time; rowid breaks ties between
// bookings created within the same clock tick.
func (r *Repository) ListBookingsByUser(ctx context.Context, userID string, status domain.BookingStatus) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	var rows []bookingRow
	if err := q.Order("created_at ASC").Order("rowid ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list bookings of %s: %w", userID, err)
	}
	out := make([]domain.Booking, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *Repository) SaveBooking(ctx context.Context, booking *domain.Booking) error {
	if err := upsert(ctx, r.db, fromBooking(booking)); err != nil {
		return fmt.Errorf("save booking %s: %w", booking.Ref, err)
	}
	return nil
}

func (r *Repository) FindPaymentByRef(ctx context.Context, ref string) (*domain.Payment, error) {
	var row paymentRow
	if err := r.db.WithContext(ctx).First(&row, "ref = ?", ref).Error; err != nil {
		return nil, notFound(err)
	}
	return row.toDomain(), nil
}

func (r *Repository) SavePayment(ctx context.Context, payment *domain.Payment) error {
	if err := upsert(ctx, r.db, fromPayment(payment)); err != nil {
		return fmt.Errorf("save payment %s: %w", payment.Ref, err)
	}
	return nil
}

func (r *Repository) AppendMessage(ctx context.Context, msg domain.Message) error {
	row := &messageRow{SessionID: msg.SessionID, Role: msg.Role, Text: msg.Text, CreatedAt: msg.CreatedAt}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("append message to %s: %w", msg.SessionID, err)
	}
	return nil
}

func (r *Repository) ListMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	q := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []messageRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list messages of %s: %w", sessionID, err)
	}
	// newest first from the query, oldest first to the caller
	out := make([]domain.Message, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = domain.Message{SessionID: row.SessionID, Role: row.Role, Text: row.Text, CreatedAt: row.CreatedAt}
	}
	return out, nil
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	r.logger.Debug("closing database")
	return sqlDB.Close()
}

var _ domain.Repository = (*Repository)(nil)
