package assistant

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Intent string

const (
	IntentPaymentSuccess Intent = "payment_success"
	IntentPaymentFailed  Intent = "payment_failed"
	IntentBooking        Intent = "booking"
	IntentModification   Intent = "modification"
	IntentCancellation   Intent = "cancellation"
	IntentFeedback       Intent = "feedback"
	IntentComplaint      Intent = "complaint"
	IntentGoodbye        Intent = "goodbye"
	IntentBookingConfirm Intent = "booking_confirm"
	IntentFAQ            Intent = "faq"
	IntentUnknown        Intent = "unknown"
	// IntentModeration and IntentTerminated never come out of the rule list;
	// they label turns stopped before intent extraction.
	IntentModeration Intent = "moderation"
	IntentTerminated Intent = "terminated"
)

// Entities are the values opportunistically pulled out of a message.
type Entities struct {
	Place      string
	RoomType   string
	Guests     int
	BookingRef string
	Option     string
	FAQKey     string
	CheckIn    time.Time
	PaymentRef string
}

// Input is a message as seen by the rules.
type Input struct {
	Raw   string
	Lower string
	Now   time.Time
}

func NewInput(raw string, now time.Time) Input {
	return Input{Raw: raw, Lower: strings.ToLower(raw), Now: now}
}

// Rule maps a message to an intent. Rules are evaluated in order and the
// first match wins.
type Rule struct {
	Intent Intent
	Match  func(in Input) (Entities, bool)
}

var (
	guestsPattern     = regexp.MustCompile(`(?i)(\d+)\s*(guest|person|people|pax)`)
	bookingRefPattern = regexp.MustCompile(`(?i)BK-[A-Z0-9]+`)
	optionPattern     = regexp.MustCompile(`SELECT_OPTION_([A-Z])`)
)

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func lastField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

var rules = []Rule{
	{Intent: IntentPaymentSuccess, Match: func(in Input) (Entities, bool) {
		return Entities{PaymentRef: lastField(in.Raw)}, strings.Contains(in.Lower, "payment_success")
	}},
	{Intent: IntentPaymentFailed, Match: func(in Input) (Entities, bool) {
		return Entities{PaymentRef: lastField(in.Raw)}, strings.Contains(in.Lower, "payment_failed")
	}},
	{Intent: IntentBooking, Match: matchBooking},
	{Intent: IntentModification, Match: func(in Input) (Entities, bool) {
		return Entities{}, containsAny(in.Lower, "modify", "change", "update")
	}},
	{Intent: IntentCancellation, Match: func(in Input) (Entities, bool) {
		// "cancellation policy" is a question, answered by the FAQ table.
		if !strings.Contains(in.Lower, "cancel") || strings.Contains(in.Lower, "policy") {
			return Entities{}, false
		}
		var e Entities
		if ref := bookingRefPattern.FindString(in.Raw); ref != "" {
			e.BookingRef = strings.ToUpper(ref)
		}
		return e, true
	}},
	{Intent: IntentFeedback, Match: func(in Input) (Entities, bool) {
		return Entities{}, containsAny(in.Lower, "feedback", "review")
	}},
	{Intent: IntentComplaint, Match: func(in Input) (Entities, bool) {
		return Entities{}, containsAny(in.Lower, "complain", "issue", "problem", "help", "human")
	}},
	{Intent: IntentGoodbye, Match: func(in Input) (Entities, bool) {
		return Entities{}, containsAny(in.Lower, "bye", "goodbye", "thanks", "thank you")
	}},
	{Intent: IntentBookingConfirm, Match: func(in Input) (Entities, bool) {
		if !strings.Contains(in.Lower, "select_option_") {
			return Entities{}, false
		}
		var e Entities
		if m := optionPattern.FindStringSubmatch(in.Raw); m != nil {
			e.Option = m[1]
		}
		return e, true
	}},
	{Intent: IntentFAQ, Match: func(in Input) (Entities, bool) {
		for _, f := range FAQs {
			if strings.Contains(in.Lower, f.Key) || strings.Contains(in.Lower, answerPrefix(f.Answer)) {
				return Entities{FAQKey: f.Key}, true
			}
		}
		return Entities{}, false
	}},
}

func answerPrefix(answer string) string {
	lower := strings.ToLower(answer)
	if len(lower) > 15 {
		return lower[:15]
	}
	return lower
}

func matchBooking(in Input) (Entities, bool) {
	if !containsAny(in.Lower, "book", "reservation") {
		return Entities{}, false
	}
	var e Entities
	for _, p := range Places {
		if strings.Contains(in.Lower, strings.ToLower(p.Name)) {
			e.Place = p.Name
		}
	}
	for _, rt := range RoomTypes {
		if strings.Contains(in.Lower, strings.ToLower(rt)) {
			e.RoomType = rt
		}
	}
	if m := guestsPattern.FindStringSubmatch(in.Raw); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			e.Guests = n
		}
	}
	if m := optionPattern.FindStringSubmatch(in.Raw); m != nil {
		e.Option = m[1]
	}
	if d, ok := parseCheckIn(in.Lower, in.Now); ok {
		e.CheckIn = d
	}
	return e, true
}

// Rules returns the ordered intent rules. The unknown intent is implied when none match.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Classify runs the rules against a message.
func Classify(in Input) (Intent, Entities) {
	for _, r := range rules {
		if e, ok := r.Match(in); ok {
			return r.Intent, e
		}
	}
	return IntentUnknown, Entities{}
}
