// Package assistant implements the stay-booking chat assistant: moderation,
// ordered intent rules and the booking, payment and cancellation workflows.
package assistant

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"playground/internal/domain"
)

const (
	DefaultNights         = 2
	DefaultPlace          = "Place 2"
	DefaultGuests         = 2
	DefaultPaymentBaseURL = "https://demo.local/pay/"
)

type Option func(*Engine)

func WithRand(r Rand) Option { return func(e *Engine) { e.rand = r } }

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func WithNights(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.nights = n
		}
	}
}

func WithDefaultPlace(name string) Option {
	return func(e *Engine) {
		if name != "" {
			e.defaultPlace = name
		}
	}
}

func WithDefaultGuests(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.defaultGuests = n
		}
	}
}

func WithPaymentBaseURL(url string) Option {
	return func(e *Engine) {
		if url != "" {
			e.paymentBaseURL = url
		}
	}
}

type handler func(t *turn) *ChatResponse

// Engine drives every chat session. Turns of one session are serialized;
// different sessions proceed in parallel.
type Engine struct {
	repo   domain.Repository
	logger *zap.Logger
	rand   Rand
	now    func() time.Time

	nights         int
	defaultPlace   string
	defaultGuests  int
	paymentBaseURL string

	locks    *sessionLocks
	handlers map[Intent]handler
}

func New(repo domain.Repository, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		repo:           repo,
		logger:         logger.Named("assistant"),
		rand:           globalRand{},
		now:            time.Now,
		nights:         DefaultNights,
		defaultPlace:   DefaultPlace,
		defaultGuests:  DefaultGuests,
		paymentBaseURL: DefaultPaymentBaseURL,
		locks:          newSessionLocks(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.handlers = map[Intent]handler{
		IntentPaymentSuccess: e.handlePaymentSuccess,
		IntentPaymentFailed:  e.handlePaymentFailed,
		IntentBooking:        e.handleBooking,
		IntentBookingConfirm: e.handleBooking,
		IntentModification:   e.handleModification,
		IntentCancellation:   e.handleCancellation,
		IntentFeedback:       e.handleFeedback,
		IntentComplaint:      e.handleComplaint,
		IntentGoodbye:        e.handleGoodbye,
		IntentFAQ:            e.handleFAQ,
		IntentUnknown:        e.handleUnknown,
	}
	return e
}

// turn is the working set of one handled event.
type turn struct {
	ctx      context.Context
	session  *domain.Session
	user     User
	raw      string
	intent   Intent
	entities Entities
	now      time.Time
}

// ProcessMessage handles one chat message. The literal payment callbacks
// "PAYMENT_SUCCESS <ref>" and "PAYMENT_FAILED <ref>" are accepted as text.
// Typed text is always moderated, callbacks included.
func (e *Engine) ProcessMessage(ctx context.Context, req ChatRequest) *ChatResponse {
	return e.handle(ctx, req.SessionID, req.User, ParseEvent(req.Message), true)
}

// HandleEvent runs one turn for the session. It always returns a reply; storage
// failures are logged and the conversation continues. PaymentResult events
// passed here come from the payment collaborator and skip moderation.
func (e *Engine) HandleEvent(ctx context.Context, sessionID string, user User, ev Event) *ChatResponse {
	return e.handle(ctx, sessionID, user, ev, false)
}

func (e *Engine) handle(ctx context.Context, sessionID string, user User, ev Event, typed bool) *ChatResponse {
	unlock := e.locks.lock(sessionID)
	defer unlock()

	now := e.now()
	sess := e.loadSession(ctx, sessionID, user, now)
	if !sess.Active {
		return &ChatResponse{
			ReplyText: replyTerminated,
			SessionID: sessionID,
			Debug:     &Debug{Intent: IntentTerminated, State: string(sess.State)},
		}
	}

	t := &turn{ctx: ctx, session: sess, user: user, now: now}
	var resp *ChatResponse
	switch ev := ev.(type) {
	case PaymentResult:
		t.raw = ev.Text()
		t.intent = IntentPaymentFailed
		if ev.Outcome == OutcomeSuccess {
			t.intent = IntentPaymentSuccess
		}
		t.entities = Entities{PaymentRef: ev.Ref}
		if typed && ContainsProfanity(t.raw) {
			resp = e.moderate(t)
			break
		}
		resp = e.dispatch(t)
	case UserText:
		t.raw = ev.Body
		resp = e.handleText(t)
	default:
		resp = e.handleText(t)
	}

	sess.UpdatedAt = now
	e.saveSession(ctx, sess)
	e.record(ctx, sessionID, t.raw, resp.ReplyText, now)

	resp.SessionID = sessionID
	resp.Debug = &Debug{Intent: t.intent, State: string(sess.State)}
	return resp
}

func (e *Engine) handleText(t *turn) *ChatResponse {
	if ContainsProfanity(t.raw) {
		return e.moderate(t)
	}
	t.intent, t.entities = Classify(NewInput(t.raw, t.now))
	return e.dispatch(t)
}

func (e *Engine) moderate(t *turn) *ChatResponse {
	t.intent = IntentModeration
	t.entities = Entities{}
	t.session.Strikes++
	text, ui, active := strike(t.session.Strikes)
	t.session.Active = active
	e.logger.Warn("moderation strike",
		zap.String("session_id", t.session.ID),
		zap.Int("strikes", t.session.Strikes),
		zap.Bool("active", active),
	)
	return &ChatResponse{ReplyText: text, UI: ui}
}

func (e *Engine) dispatch(t *turn) *ChatResponse {
	h, ok := e.handlers[t.intent]
	if !ok {
		return e.handleUnknown(t)
	}
	return h(t)
}

func (e *Engine) loadSession(ctx context.Context, id string, user User, now time.Time) *domain.Session {
	sess, err := e.repo.GetSession(ctx, id)
	if err == nil {
		return sess
	}
	if !errors.Is(err, domain.ErrNotFound) {
		e.logger.Error("load session", zap.String("session_id", id), zap.Error(err))
	}
	sess = &domain.Session{
		ID:        id,
		UserID:    user.Phone,
		State:     domain.StateIdle,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.saveSession(ctx, sess)
	return sess
}

func (e *Engine) saveSession(ctx context.Context, sess *domain.Session) {
	if err := e.repo.SaveSession(ctx, sess); err != nil {
		e.logger.Error("save session", zap.String("session_id", sess.ID), zap.Error(err))
	}
}

func (e *Engine) saveBooking(ctx context.Context, b *domain.Booking) {
	if err := e.repo.SaveBooking(ctx, b); err != nil {
		e.logger.Error("save booking", zap.String("booking_ref", b.Ref), zap.Error(err))
	}
}

func (e *Engine) savePayment(ctx context.Context, p *domain.Payment) {
	if err := e.repo.SavePayment(ctx, p); err != nil {
		e.logger.Error("save payment", zap.String("payment_ref", p.Ref), zap.Error(err))
	}
}

func (e *Engine) record(ctx context.Context, sessionID, in, out string, now time.Time) {
	msgs := []domain.Message{
		{SessionID: sessionID, Role: domain.RoleUser, Text: in, CreatedAt: now},
		{SessionID: sessionID, Role: domain.RoleAssistant, Text: out, CreatedAt: now},
	}
	for _, m := range msgs {
		if err := e.repo.AppendMessage(ctx, m); err != nil {
			e.logger.Error("append transcript", zap.String("session_id", sessionID), zap.Error(err))
			return
		}
	}
}

// PendingPaymentAmount returns the amount of the payment with the given reference.
func (e *Engine) PendingPaymentAmount(ctx context.Context, ref string) (int, error) {
	p, err := e.repo.FindPaymentByRef(ctx, ref)
	if err != nil {
		return 0, err
	}
	return p.Amount, nil
}

// Transcript returns the newest limit messages of a session, oldest first.
func (e *Engine) Transcript(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	return e.repo.ListMessages(ctx, sessionID, limit)
}

// Session returns the stored session.
func (e *Engine) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.repo.GetSession(ctx, sessionID)
}

type sessionLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{m: make(map[string]*sync.Mutex)}
}

func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	m := l.m[id]
	if m == nil {
		m = &sync.Mutex{}
		l.m[id] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}
