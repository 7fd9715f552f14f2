// Package redis keeps assistant records in Redis as JSON values.
//
// Layout under the configured prefix:
//
//	session:<id>         session JSON
//	booking:<id>         booking JSON
//	booking_ref:<ref>    booking id
//	user_bookings:<uid>  sorted set of booking ids scored by creation time
//	payment:<ref>        payment JSON
//	messages:<sid>       list of message JSON, oldest first
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"playground/internal/domain"
)

const DefaultPrefix = "playground:"

type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type Repository struct {
	rdb    *redis.Client
	prefix string
	logger *zap.Logger
}

// Open connects and pings the server.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (*Repository, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return NewRepository(rdb, opts.Prefix, logger), nil
}

func NewRepository(rdb *redis.Client, prefix string, logger *zap.Logger) *Repository {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{rdb: rdb, prefix: prefix, logger: logger.Named("store.redis")}
}

func (r *Repository) key(kind, id string) string { return r.prefix + kind + ":" + id }

func (r *Repository) getJSON(ctx context.Context, key string, v any) error {
	data, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (r *Repository) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *Repository) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	var s domain.Session
	if err := r.getJSON(ctx, r.key("session", id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) SaveSession(ctx context.Context, session *domain.Session) error {
	return r.setJSON(ctx, r.key("session", session.ID), session)
}

func (r *Repository) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.getJSON(ctx, r.key("booking", id), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) FindBookingByRef(ctx context.Context, ref string) (*domain.Booking, error) {
	id, err := r.rdb.Get(ctx, r.key("booking_ref", ref)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", ref, err)
	}
	return r.GetBooking(ctx, id)
}

func (r *Repository) ListBookingsByUser(ctx context.Context, userID string, status domain.BookingStatus) ([]domain.Booking, error) {
	ids, err := r.rdb.ZRange(ctx, r.key("user_bookings", userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list bookings of %s: %w", userID, err)
	}
	var out []domain.Booking
	for _, id := range ids {
		b, err := r.GetBooking(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Warn("dangling booking index entry", zap.String("user_id", userID), zap.String("booking_id", id))
			continue
		}
		if err != nil {
			return nil, err
		}
		if status == "" || b.Status == status {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *Repository) SaveBooking(ctx context.Context, booking *domain.Booking) error {
	data, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("encode booking %s: %w", booking.Ref, err)
	}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key("booking", booking.ID), data, 0)
		pipe.Set(ctx, r.key("booking_ref", booking.Ref), booking.ID, 0)
		// NX keeps the original creation score on status updates
		pipe.ZAddNX(ctx, r.key("user_bookings", booking.UserID), redis.Z{
			Score:  float64(booking.CreatedAt.UnixNano()),
			Member: booking.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("save booking %s: %w", booking.Ref, err)
	}
	return nil
}

func (r *Repository) FindPaymentByRef(ctx context.Context, ref string) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.getJSON(ctx, r.key("payment", ref), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) SavePayment(ctx context.Context, payment *domain.Payment) error {
	return r.setJSON(ctx, r.key("payment", payment.Ref), payment)
}

func (r *Repository) AppendMessage(ctx context.Context, msg domain.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if err := r.rdb.RPush(ctx, r.key("messages", msg.SessionID), data).Err(); err != nil {
		return fmt.Errorf("append message to %s: %w", msg.SessionID, err)
	}
	return nil
}

func (r *Repository) ListMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}
	raw, err := r.rdb.LRange(ctx, r.key("messages", sessionID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list messages of %s: %w", sessionID, err)
	}
	out := make([]domain.Message, 0, len(raw))
	for _, item := range raw {
		var m domain.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("decode message of %s: %w", sessionID, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Repository) Close() error {
	return r.rdb.Close()
}

var _ domain.Repository = (*Repository)(nil)
