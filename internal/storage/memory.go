package storage

import (
	"sync"
	"time"

	"swapgogo/backend/internal/models"
)

// MemoryStore is an in-memory Storage used by tests and by DB_BACKEND=memory
// development mode. A single mutex guards all state, which makes the
// transition primitives trivially atomic. Published events are delivered to
// the Events channel (and dropped when nobody is draining it).
type MemoryStore struct {
	mu     sync.Mutex
	offers map[string]*models.Offer
	order  []string // insertion order of offer ids

	Events chan models.SwapEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		offers: make(map[string]*models.Offer),
		order:  []string{},
		Events: make(chan models.SwapEvent, 64),
	}
}

func (s *MemoryStore) CreateOffer(offer *models.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The GORM hook tolerates a nil tx, so we reuse it for id/keywords.
	if err := offer.BeforeCreate(nil); err != nil {
		return err
	}
	if offer.CreatedAt.IsZero() {
		offer.CreatedAt = time.Now()
	}
	offer.Status = models.StatusPending
	offer.MatchedWith = nil
	offer.ConfirmationCode = nil
	offer.CodeIssuedBy = nil

	stored := *offer
	s.offers[stored.ID] = &stored
	s.order = append(s.order, stored.ID)
	return nil
}

func (s *MemoryStore) GetOffer(id string) (*models.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(id)
}

func (s *MemoryStore) getLocked(id string) (*models.Offer, error) {
	offer, ok := s.offers[id]
	if !ok {
		return nil, ErrOfferNotFound
	}
	copied := *offer
	return &copied, nil
}

func (s *MemoryStore) ListPendingOffers() ([]models.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Offer
	for _, id := range s.order {
		if o, ok := s.offers[id]; ok && o.Status == models.StatusPending {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListOffersForUser(userID string) ([]models.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	own := make(map[string]bool)
	for _, o := range s.offers {
		if o.OwnerID == userID {
			own[o.ID] = true
		}
	}

	var out []models.Offer
	for _, id := range s.order {
		o, ok := s.offers[id]
		if !ok {
			continue
		}
		if o.OwnerID == userID || (o.MatchedWith != nil && own[*o.MatchedWith]) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListOffers(offset, limit int) ([]models.Offer, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]models.Offer, 0, len(s.order))
	for _, id := range s.order {
		if o, ok := s.offers[id]; ok {
			all = append(all, *o)
		}
	}
	total := int64(len(all))

	if offset >= len(all) {
		return []models.Offer{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s *MemoryStore) CompareAndTransition(id, expectedStatus string, m models.Mutation) (*models.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionLocked(id, expectedStatus, m)
}

func (s *MemoryStore) transitionLocked(id, expectedStatus string, m models.Mutation) (*models.Offer, error) {
	offer, ok := s.offers[id]
	if !ok {
		return nil, ErrOfferNotFound
	}
	if offer.Status != expectedStatus {
		return nil, ErrStatusConflict
	}
	m.Apply(offer)
	copied := *offer
	return &copied, nil
}

func (s *MemoryStore) TransitionPair(idA, idB, expectedStatus string, mA, mB models.Mutation) (*models.Offer, *models.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Перевіряємо обидва офери до будь-якої мутації, щоб перехід був
	// "все або нічого".
	for _, id := range []string{idA, idB} {
		offer, ok := s.offers[id]
		if !ok {
			return nil, nil, ErrOfferNotFound
		}
		if offer.Status != expectedStatus {
			return nil, nil, ErrStatusConflict
		}
	}

	a, err := s.transitionLocked(idA, expectedStatus, mA)
	if err != nil {
		return nil, nil, err
	}
	b, err := s.transitionLocked(idB, expectedStatus, mB)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func (s *MemoryStore) DeleteOffer(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.offers[id]; !ok {
		return ErrOfferNotFound
	}
	delete(s.offers, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) PublishEvent(ev models.SwapEvent) error {
	select {
	case s.Events <- ev:
	default:
		// Немає споживача — подію відкидаємо.
	}
	return nil
}
