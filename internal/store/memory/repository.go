// Package memory keeps assistant records in process memory, optionally
// mirrored to a snapshot file so they survive restarts.
package memory

import (
	"context"
	"encoding/gob"
	"errors"
	"os"
	"sync"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"playground/internal/domain"
)

func init() {
	gob.Register(domain.Session{})
	gob.Register(domain.Booking{})
	gob.Register(domain.Payment{})
	gob.Register([]domain.Message{})
	gob.Register([]string{})
}

const (
	sessionPrefix    = "session:"
	bookingPrefix    = "booking:"
	bookingRefPrefix = "booking_ref:"
	userPrefix       = "user_bookings:"
	paymentPrefix    = "payment:"
	messagesPrefix   = "messages:"
)

// Repository implements domain.Repository on top of go-cache. Records never
// expire and are stored by value.
type Repository struct {
	cache    *cache.Cache
	snapshot string
	logger   *zap.Logger

	// mu serializes read-modify-write of the index and transcript lists.
	mu sync.Mutex
}

// NewRepository creates an empty repository. When snapshot is set, existing
// records are loaded from it and every write rewrites the file.
func NewRepository(snapshot string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Repository{
		cache:    cache.New(cache.NoExpiration, 0),
		snapshot: snapshot,
		logger:   logger.Named("store.memory"),
	}
	if snapshot == "" {
		return r, nil
	}
	if err := r.cache.LoadFile(snapshot); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	r.logger.Info("snapshot loaded", zap.String("path", snapshot), zap.Int("items", r.cache.ItemCount()))
	return r, nil
}

func (r *Repository) persist() {
	if r.snapshot == "" {
		return
	}
	if err := r.cache.SaveFile(r.snapshot); err != nil {
		r.logger.Error("write snapshot", zap.String("path", r.snapshot), zap.Error(err))
	}
}

func (r *Repository) GetSession(_ context.Context, id string) (*domain.Session, error) {
	x, ok := r.cache.Get(sessionPrefix + id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	s := x.(domain.Session)
	return &s, nil
}

func (r *Repository) SaveSession(_ context.Context, session *domain.Session) error {
	r.cache.Set(sessionPrefix+session.ID, *session, cache.NoExpiration)
	r.persist()
	return nil
}

func (r *Repository) GetBooking(_ context.Context, id string) (*domain.Booking, error) {
	x, ok := r.cache.Get(bookingPrefix + id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	b := x.(domain.Booking)
	return &b, nil
}

func (r *Repository) FindBookingByRef(ctx context.Context, ref string) (*domain.Booking, error) {
	x, ok := r.cache.Get(bookingRefPrefix + ref)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.GetBooking(ctx, x.(string))
}

func (r *Repository) ListBookingsByUser(ctx context.Context, userID string, status domain.BookingStatus) ([]domain.Booking, error) {
	x, ok := r.cache.Get(userPrefix + userID)
	if !ok {
		return nil, nil
	}
	var out []domain.Booking
	for _, id := range x.([]string) {
		b, err := r.GetBooking(ctx, id)
		if err != nil {
			continue
		}
		if status == "" || b.Status == status {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *Repository) SaveBooking(_ context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := bookingPrefix + booking.ID
	if _, exists := r.cache.Get(key); !exists {
		var ids []string
		if x, ok := r.cache.Get(userPrefix + booking.UserID); ok {
			ids = x.([]string)
		}
		ids = append(append([]string(nil), ids...), booking.ID)
		r.cache.Set(userPrefix+booking.UserID, ids, cache.NoExpiration)
	}
	r.cache.Set(key, *booking, cache.NoExpiration)
	r.cache.Set(bookingRefPrefix+booking.Ref, booking.ID, cache.NoExpiration)
	r.persist()
	return nil
}

func (r *Repository) FindPaymentByRef(_ context.Context, ref string) (*domain.Payment, error) {
	x, ok := r.cache.Get(paymentPrefix + ref)
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := x.(domain.Payment)
	return &p, nil
}

func (r *Repository) SavePayment(_ context.Context, payment *domain.Payment) error {
	r.cache.Set(paymentPrefix+payment.Ref, *payment, cache.NoExpiration)
	r.persist()
	return nil
}

func (r *Repository) AppendMessage(_ context.Context, msg domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var msgs []domain.Message
	if x, ok := r.cache.Get(messagesPrefix + msg.SessionID); ok {
		msgs = x.([]domain.Message)
	}
	msgs = append(append([]domain.Message(nil), msgs...), msg)
	r.cache.Set(messagesPrefix+msg.SessionID, msgs, cache.NoExpiration)
	r.persist()
	return nil
}

func (r *Repository) ListMessages(_ context.Context, sessionID string, limit int) ([]domain.Message, error) {
	x, ok := r.cache.Get(messagesPrefix + sessionID)
	if !ok {
		return nil, nil
	}
	msgs := x.([]domain.Message)
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]domain.Message(nil), msgs...), nil
}

// Close flushes the snapshot file.
func (r *Repository) Close() error {
	if r.snapshot == "" {
		return nil
	}
	return r.cache.SaveFile(r.snapshot)
}

var _ domain.Repository = (*Repository)(nil)
