// Package deals provides the read-side projections over the offer store:
// active deals, history, and single-deal lookup with the counterpart
// resolved, plus the owner-scoped archival operations (delete, clear).
// It never drives matching or handshake transitions.
package deals

import (
	"errors"
	"log"

	"swapgogo/backend/internal/models"
	"swapgogo/backend/internal/storage"
)

// ErrNotOwner повертається, коли видалення запитує не власник офера.
var ErrNotOwner = errors.New("only the offer owner can delete it")

// Service handles the read and archival side of offers.
type Service struct {
	Storage storage.Storage
}

// NewService creates a new deals service.
func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// ActiveDeals returns the user's offers that are still in play (pending or
// matched), owned by the user or matched to one of their offers, in
// insertion order.
func (s *Service) ActiveDeals(userID string) ([]models.Offer, error) {
	offers, err := s.Storage.ListOffersForUser(userID)
	if err != nil {
		return nil, err
	}

	active := make([]models.Offer, 0, len(offers))
	for _, o := range offers {
		if o.Status == models.StatusPending || o.Status == models.StatusMatched {
			active = append(active, o)
		}
	}
	return active, nil
}

// History returns every offer involving the user regardless of status,
// newest first.
func (s *Service) History(userID string) ([]models.Offer, error) {
	offers, err := s.Storage.ListOffersForUser(userID)
	if err != nil {
		return nil, err
	}

	// ListOffersForUser віддає порядок створення — розвертаємо.
	for i, j := 0, len(offers)-1; i < j; i, j = i+1, j-1 {
		offers[i], offers[j] = offers[j], offers[i]
	}
	return offers, nil
}

// GetDeal returns an offer together with its counterpart. Counterpart
// resolution is best-effort: a missing counterpart (for example, deleted
// from the other side's history) yields nil and the dangling reference is
// nulled on the returned copy.
func (s *Service) GetDeal(id string) (*models.Offer, *models.Offer, error) {
	offer, err := s.Storage.GetOffer(id)
	if err != nil {
		return nil, nil, err
	}
	if offer.MatchedWith == nil {
		return offer, nil, nil
	}

	counterpart, err := s.Storage.GetOffer(*offer.MatchedWith)
	if errors.Is(err, storage.ErrOfferNotFound) {
		offer.MatchedWith = nil
		return offer, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return offer, counterpart, nil
}

// DeleteEntry removes a single offer from the requester's history. Only the
// owner may delete. If the offer was paired, the surviving side is repaired
// so it never keeps a reference to the deleted record.
func (s *Service) DeleteEntry(id, requesterID string) error {
	offer, err := s.Storage.GetOffer(id)
	if err != nil {
		return err
	}
	if offer.OwnerID != requesterID {
		return ErrNotOwner
	}
	return s.deleteAndUnlink(offer)
}

// ClearHistory deletes every offer owned by the user and returns how many
// records were removed.
func (s *Service) ClearHistory(userID string) (int, error) {
	offers, err := s.Storage.ListOffersForUser(userID)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for i := range offers {
		if offers[i].OwnerID != userID {
			continue // зустрічний офер партнера не чіпаємо
		}
		if err := s.deleteAndUnlink(&offers[i]); err != nil {
			if errors.Is(err, storage.ErrOfferNotFound) {
				continue
			}
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// deleteAndUnlink видаляє офер і прибирає обірване посилання на нього з
// уцілілої сторони пари. Уцілілий matched-офер повертається у pending (його
// пари більше не існує); completed-офер лишається completed без посилання.
func (s *Service) deleteAndUnlink(offer *models.Offer) error {
	if err := s.Storage.DeleteOffer(offer.ID); err != nil {
		return err
	}
	if offer.MatchedWith == nil {
		return nil
	}

	survivor, err := s.Storage.GetOffer(*offer.MatchedWith)
	if err != nil {
		return nil // другої сторони вже немає
	}
	if survivor.MatchedWith == nil || *survivor.MatchedWith != offer.ID {
		return nil
	}

	mutation := models.Mutation{Status: survivor.Status}
	if survivor.Status == models.StatusMatched {
		mutation.Status = models.StatusPending
	}
	if _, err := s.Storage.CompareAndTransition(survivor.ID, survivor.Status, mutation); err != nil {
		// Конкурентний перехід сам подбав про стан — лише логуємо.
		log.Printf("WARNING: Failed to unlink survivor %s after deleting %s: %v",
			survivor.ID, offer.ID, err)
	}
	return nil
}
