package assistant

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Rand is the randomness used for price jitter and references.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

const (
	refAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	refLength   = 6
)

// newRef returns PREFIX-XXXXXX. References never contain a lexicon word, so
// echoing one back can not trip moderation.
func newRef(r Rand, prefix string) string {
	for {
		var b strings.Builder
		b.WriteString(prefix)
		b.WriteByte('-')
		for range refLength {
			b.WriteByte(refAlphabet[r.IntN(len(refAlphabet))])
		}
		ref := b.String()
		if !ContainsProfanity(ref) {
			return ref
		}
	}
}

func newID(now time.Time) string {
	return ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
}
