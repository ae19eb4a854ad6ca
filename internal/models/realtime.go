package models

// Типи подій життєвого циклу свопу.
const (
	EventMatched   = "matched"
	EventCompleted = "completed"
	EventDeclined  = "declined"
)

// SwapEvent is broadcast whenever a pair changes state, so that both parties
// can re-render from fresh data instead of computing transitions themselves.
type SwapEvent struct {
	Type          string   `json:"type"` // "matched", "completed", "declined"
	OfferID       string   `json:"offer_id"`
	CounterpartID string   `json:"counterpart_id"`
	Parties       []string `json:"parties"` // owner ids of both sides
}

// Involves reports whether userID is one of the event's parties.
func (e SwapEvent) Involves(userID string) bool {
	for _, p := range e.Parties {
		if p == userID {
			return true
		}
	}
	return false
}
