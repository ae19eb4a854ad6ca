package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // Необхідний для pq.StringArray
	"gorm.io/gorm"
)

// Статуси життєвого циклу офера.
const (
	StatusPending   = "pending"
	StatusMatched   = "matched"
	StatusCompleted = "completed"
	StatusDeclined  = "declined"
)

// Item describes one side of a swap: what a party holds or wants.
// Only Name participates in matching; the rest is descriptive.
type Item struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Category string `json:"category"`
	Image    string `json:"image,omitempty"`
}

// Offer represents a party's proposal to exchange a held item for a wanted one.
// Status, MatchedWith, ConfirmationCode and CodeIssuedBy are only ever written
// through the storage transition primitives; everything else is immutable
// after creation.
type Offer struct {
	ID      string `gorm:"primaryKey" json:"id"` // UUID
	OwnerID string `gorm:"index;not null" json:"owner_id"`

	HaveItem Item `gorm:"embedded;embeddedPrefix:have_" json:"have_item"`
	WantItem Item `gorm:"embedded;embeddedPrefix:want_" json:"want_item"`

	Location string `json:"location"`
	Message  string `json:"message,omitempty"`

	// Status is one of the Status* constants above.
	Status string `gorm:"index;not null" json:"status"`
	// MatchedWith references the paired offer. Non-nil only while the offer
	// is matched or completed, and always symmetric between the two sides.
	MatchedWith *string `gorm:"index" json:"matched_with,omitempty"`
	// ConfirmationCode is the outstanding handshake code, stored on both
	// sides of a pair. Cleared on completion and on decline.
	ConfirmationCode *string `json:"-"`
	// CodeIssuedBy records which party generated the outstanding code, so
	// that the same party cannot also confirm it.
	CodeIssuedBy *string `json:"-"`

	// Keywords — пошукові ключі, отримані з назв товарів
	Keywords pq.StringArray `gorm:"type:text[]" json:"-"`

	CreatedAt time.Time `json:"timestamp"`
}

// BeforeCreate — хук GORM, який викликається перед створенням запису.
// Генерує UUID та пошукові ключі, якщо їх ще не встановлено.
func (o *Offer) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if len(o.Keywords) == 0 {
		o.Keywords = deriveKeywords(o.HaveItem.Name, o.WantItem.Name)
	}
	return
}

// IsParty reports whether userID owns this offer.
func (o *Offer) IsParty(userID string) bool {
	return o.OwnerID == userID
}

// deriveKeywords розбиває назви товарів на токени у нижньому регістрі.
func deriveKeywords(names ...string) pq.StringArray {
	seen := make(map[string]bool)
	var keywords pq.StringArray
	for _, name := range names {
		for _, token := range strings.Fields(strings.ToLower(name)) {
			if token == "" || seen[token] {
				continue
			}
			seen[token] = true
			keywords = append(keywords, token)
		}
	}
	return keywords
}
