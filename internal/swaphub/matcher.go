package swaphub

import (
	"errors"
	"log"

	"swapgogo/backend/internal/config"
	"swapgogo/backend/internal/models"
	"swapgogo/backend/internal/storage"
)

// MatcherService відповідає за алгоритм зіставлення оферів.
type MatcherService struct {
	Storage storage.Storage
}

// NewMatcherService створює новий Matcher.
func NewMatcherService(s storage.Storage) *MatcherService {
	return &MatcherService{Storage: s}
}

// Compatible reports whether two offers can be paired: the candidate must be
// pending, belong to a different owner, and the item names must be mutually
// reciprocal. Name comparison is exact and case-sensitive; quantity and
// category are ignored.
func Compatible(offer, candidate *models.Offer) bool {
	if candidate.Status != models.StatusPending {
		return false
	}
	if candidate.ID == offer.ID || candidate.OwnerID == offer.OwnerID {
		return false
	}
	return offer.HaveItem.Name == candidate.WantItem.Name &&
		offer.WantItem.Name == candidate.HaveItem.Name
}

// SubmitOffer зберігає новий офер та одразу шукає для нього пару.
// Повертає офер-партнер, якщо зіставлення відбулося, інакше nil.
func (m *MatcherService) SubmitOffer(offer *models.Offer) (*models.Offer, error) {
	if err := m.Storage.CreateOffer(offer); err != nil {
		return nil, err
	}

	counterpart, err := m.tryMatch(offer)
	if err != nil {
		return nil, err
	}
	if counterpart != nil {
		ev := models.SwapEvent{
			Type:          models.EventMatched,
			OfferID:       offer.ID,
			CounterpartID: counterpart.ID,
			Parties:       []string{offer.OwnerID, counterpart.OwnerID},
		}
		if err := m.Storage.PublishEvent(ev); err != nil {
			log.Printf("ERROR: Failed to publish match event for %s: %v", offer.ID, err)
		}
		log.Printf("Match found: %s and %s", offer.ID, counterpart.ID)
	}
	return counterpart, nil
}

// tryMatch сканує pending-офери у порядку створення та обирає перший
// сумісний (first-match-wins). Конфлікт на кандидаті означає, що його
// перехопила конкурентна подача; зниклий кандидат — що власник встиг його
// видалити. В обох випадках просто йдемо далі. Конфлікт на власному офері
// означає, що пару для нас уже знайшли.
func (m *MatcherService) tryMatch(offer *models.Offer) (*models.Offer, error) {
	for attempt := 0; attempt < config.MaxMatchAttempts; attempt++ {
		candidates, err := m.Storage.ListPendingOffers()
		if err != nil {
			return nil, err
		}

		conflicted := false
		for i := range candidates {
			candidate := &candidates[i]
			if !Compatible(offer, candidate) {
				continue
			}

			a, b, err := m.Storage.TransitionPair(
				offer.ID, candidate.ID, models.StatusPending,
				models.Mutation{Status: models.StatusMatched, MatchedWith: &candidate.ID},
				models.Mutation{Status: models.StatusMatched, MatchedWith: &offer.ID},
			)
			if errors.Is(err, storage.ErrStatusConflict) || errors.Is(err, storage.ErrOfferNotFound) {
				current, gerr := m.Storage.GetOffer(offer.ID)
				if gerr != nil {
					return nil, gerr
				}
				if current.Status != models.StatusPending {
					// Нас зіставила конкурентна подача.
					*offer = *current
					if current.MatchedWith == nil {
						return nil, nil
					}
					return m.Storage.GetOffer(*current.MatchedWith)
				}
				// Кандидата забрали — пробуємо наступного.
				conflicted = true
				continue
			}
			if err != nil {
				return nil, err
			}

			*offer = *a
			return b, nil
		}

		if !conflicted {
			return nil, nil // сумісних кандидатів немає — лишаємося pending
		}
	}

	return nil, nil
}
