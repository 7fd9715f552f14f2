package domain

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Repository implementations when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(text string) ([]float64, error)
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// VectorStore persists vectors and supports similarity search.
type VectorStore interface {
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, chunks []Chunk, vectors [][]float64) error
	Search(ctx context.Context, vector []float64, topK int) ([]SearchResult, error)
	Clear(ctx context.Context) error
}

// Summarizer turns retrieved chunks into per-document recommendations.
type Summarizer interface {
	Summarize(positive string, chunks []RetrievedChunk) []Recommendation
}

// Repository owns the assistant's sessions, bookings, payments and transcripts.
// Lookups of missing records return ErrNotFound.
type Repository interface {
	GetSession(ctx context.Context, id string) (*Session, error)
	SaveSession(ctx context.Context, session *Session) error

	GetBooking(ctx context.Context, id string) (*Booking, error)
	FindBookingByRef(ctx context.Context, ref string) (*Booking, error)
	// ListBookingsByUser returns the user's bookings with the given status,
	// oldest first. An empty status matches every booking.
	ListBookingsByUser(ctx context.Context, userID string, status BookingStatus) ([]Booking, error)
	SaveBooking(ctx context.Context, booking *Booking) error

	FindPaymentByRef(ctx context.Context, ref string) (*Payment, error)
	SavePayment(ctx context.Context, payment *Payment) error

	AppendMessage(ctx context.Context, msg Message) error
	// ListMessages returns the newest limit messages of a session, oldest first.
	ListMessages(ctx context.Context, sessionID string, limit int) ([]Message, error)

	Close() error
}
