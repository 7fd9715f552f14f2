package assistant

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Place struct {
	ID          string
	Name        string
	Description string
}

var Places = []Place{
	{ID: "1", Name: "Place 1", Description: "Beachfront paradise"},
	{ID: "2", Name: "Place 2", Description: "Mountain retreat"},
	{ID: "3", Name: "Place 3", Description: "City center hub"},
	{ID: "4", Name: "Place 4", Description: "Desert oasis"},
	{ID: "5", Name: "Place 5", Description: "Lakeside escape"},
}

const (
	RoomMixedDorm   = "Mixed Dorm"
	RoomFemaleDorm  = "Female Dorm"
	RoomPrivateRoom = "Private Room"
)

var RoomTypes = []string{RoomMixedDorm, RoomFemaleDorm, RoomPrivateRoom}

// Nightly prices are base + [0, PriceJitter).
var basePrices = map[string]int{
	RoomMixedDorm:   800,
	RoomFemaleDorm:  900,
	RoomPrivateRoom: 2400,
}

const PriceJitter = 200

// BasePrice returns the nightly base price of a room type.
func BasePrice(roomType string) int { return basePrices[roomType] }

func findPlace(name string) (Place, bool) {
	for _, p := range Places {
		if p.Name == name {
			return p, true
		}
	}
	return Place{}, false
}

type FAQ struct {
	Key    string
	Answer string
}

// FAQs is scanned in order; the first matching entry answers.
var FAQs = []FAQ{
	{Key: "check-in time", Answer: "Check-in time is 2:00 PM. Early check-in subject to availability."},
	{Key: "check-out time", Answer: "Check-out time is 11:00 AM. Late check-out may incur additional charges."},
	{Key: "id requirements", Answer: "Valid government-issued photo ID required at check-in (Passport, National ID, or Emirates ID)."},
	{Key: "cancellation policy", Answer: "Free cancellation if >48h before check-in. 48-24h: charge 1 night. <24h: no refund."},
	{Key: "refund timeline", Answer: "Refunds are processed within 3-5 business days to the original payment method."},
	{Key: "room types", Answer: "We offer Mixed Dorm (shared), Female Dorm (women only), and Private Room (single/double occupancy)."},
	{Key: "wifi", Answer: "Free high-speed WiFi available throughout the property."},
	{Key: "parking", Answer: "Free parking available for guests. Subject to availability."},
	{Key: "pets", Answer: "Sorry, pets are not allowed in our properties."},
	{Key: "smoking", Answer: "All our properties are non-smoking. Smoking areas available outside."},
}

func faqAnswer(key string) string {
	for _, f := range FAQs {
		if f.Key == key {
			return f.Answer
		}
	}
	return ""
}

var amountPrinter = message.NewPrinter(language.English)

// rupees renders an amount with thousands separators, e.g. ₹4,800.
func rupees(amount int) string {
	return amountPrinter.Sprintf("₹%d", amount)
}
