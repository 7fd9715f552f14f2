package assistant

import "strings"

// Lexicon is matched as case-insensitive substrings, so "hello" counts as "hell".
var Lexicon = []string{"fuck", "shit", "damn", "hell", "ass", "bitch", "bastard", "crap"}

// ContainsProfanity reports whether text contains any lexicon word.
func ContainsProfanity(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range Lexicon {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

const (
	replyFirstWarning = "⚠️ Please maintain respectful communication. This is your first warning."
	replyFinalWarning = "⚠️⚠️ Final warning. Any further inappropriate language will end this session."
	replyTerminating  = "🚫 Zo Zo! Session terminated due to repeated policy violations. Thank you."
	replyTerminated   = "⛔ Session has been terminated due to policy violations. Please refresh to start a new session."
)

// strike records one violation and returns the escalation reply.
// The session is deactivated on the last strike.
func strike(strikes int) (text string, ui *UI, active bool) {
	switch {
	case strikes <= 1:
		return replyFirstWarning, chips("I understand", "Sorry"), true
	case strikes == 2:
		return replyFinalWarning, chips("I understand"), true
	default:
		return replyTerminating, nil, false
	}
}
