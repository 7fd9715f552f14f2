package assistant

import (
	"strings"
)

// Event is one inbound turn: either text typed by the user or a result
// reported by the payment collaborator.
type Event interface {
	// Text is the transcript rendering of the event.
	Text() string
	isEvent()
}

// UserText is a message authored by the user.
type UserText struct {
	Body string
}

func (e UserText) Text() string { return e.Body }
func (UserText) isEvent()       {}

type PaymentOutcome string

const (
	OutcomeSuccess PaymentOutcome = "SUCCESS"
	OutcomeFailed  PaymentOutcome = "FAILED"
)

// PaymentResult reports how the payment for Ref ended.
type PaymentResult struct {
	Ref     string
	Outcome PaymentOutcome
}

func (e PaymentResult) Text() string {
	if e.Outcome == OutcomeSuccess {
		return "PAYMENT_SUCCESS " + e.Ref
	}
	return "PAYMENT_FAILED " + e.Ref
}
func (PaymentResult) isEvent() {}

// ParseEvent recognises the literal "PAYMENT_SUCCESS <ref>" and
// "PAYMENT_FAILED <ref>" callbacks. Everything else is user text.
func ParseEvent(text string) Event {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return UserText{Body: text}
	}
	switch strings.ToUpper(fields[0]) {
	case "PAYMENT_SUCCESS":
		return PaymentResult{Ref: fields[1], Outcome: OutcomeSuccess}
	case "PAYMENT_FAILED":
		return PaymentResult{Ref: fields[1], Outcome: OutcomeFailed}
	}
	return UserText{Body: text}
}
