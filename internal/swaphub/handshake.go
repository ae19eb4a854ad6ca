package swaphub

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"sync"

	"swapgogo/backend/internal/config"
	"swapgogo/backend/internal/models"
	"swapgogo/backend/internal/storage"
)

// HandshakeService керує кодом підтвердження зіставленої пари та переходами
// matched → completed / matched → pending (decline).
//
// Кожна операція виконується в ексклюзивній секції пари, тому часткові
// оновлення (один офер перейшов, другий ні) неможливі.
type HandshakeService struct {
	Storage storage.Storage

	mu        sync.Mutex
	pairLocks map[string]*sync.Mutex
}

// NewHandshakeService створює новий координатор рукостискання.
func NewHandshakeService(s storage.Storage) *HandshakeService {
	return &HandshakeService{
		Storage:   s,
		pairLocks: make(map[string]*sync.Mutex),
	}
}

// GenerateCode видає свіжий код підтвердження для зіставленої пари.
// Код зберігається на обох сторонах і перезаписує попередній чинний код.
// Запитувач має бути однією зі сторін пари.
func (h *HandshakeService) GenerateCode(offerID, requesterID string) (string, error) {
	offer, counterpart, err := h.loadPair(offerID)
	if err != nil {
		return "", err
	}

	lock := h.pairLock(offer.ID, counterpart.ID)
	lock.Lock()
	defer lock.Unlock()

	// Перечитуємо під замком: стан міг змінитися.
	offer, counterpart, err = h.loadPair(offerID)
	if err != nil {
		return "", err
	}
	if !offer.IsParty(requesterID) && !counterpart.IsParty(requesterID) {
		return "", ErrForbidden
	}

	code, err := newConfirmationCode()
	if err != nil {
		return "", err
	}

	_, _, err = h.Storage.TransitionPair(
		offer.ID, counterpart.ID, models.StatusMatched,
		models.Mutation{
			Status:           models.StatusMatched,
			MatchedWith:      offer.MatchedWith,
			ConfirmationCode: &code,
			CodeIssuedBy:     &requesterID,
		},
		models.Mutation{
			Status:           models.StatusMatched,
			MatchedWith:      counterpart.MatchedWith,
			ConfirmationCode: &code,
			CodeIssuedBy:     &requesterID,
		},
	)
	if errors.Is(err, storage.ErrStatusConflict) || errors.Is(err, storage.ErrOfferNotFound) {
		return "", ErrNotMatched
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

// ConfirmCode завершує своп: обидва офери атомарно переходять у completed,
// код очищується. Підтвердити може лише сторона пари, яка НЕ генерувала
// чинний код (захист від самопідтвердження); на практиці це "створювач"
// пари, що підтверджує код, згенерований "відповідачем".
func (h *HandshakeService) ConfirmCode(offerID, submitterID, code string) (*models.Offer, *models.Offer, error) {
	offer, counterpart, err := h.loadPair(offerID)
	if err != nil {
		return nil, nil, err
	}

	lock := h.pairLock(offer.ID, counterpart.ID)
	lock.Lock()
	defer lock.Unlock()

	offer, counterpart, err = h.loadPair(offerID)
	if err != nil {
		return nil, nil, err
	}
	if !offer.IsParty(submitterID) && !counterpart.IsParty(submitterID) {
		return nil, nil, ErrForbidden
	}
	if offer.CodeIssuedBy != nil && *offer.CodeIssuedBy == submitterID {
		return nil, nil, ErrForbidden // самопідтвердження заборонено
	}
	if offer.ConfirmationCode == nil || *offer.ConfirmationCode != code {
		return nil, nil, ErrWrongCode
	}

	a, b, err := h.Storage.TransitionPair(
		offer.ID, counterpart.ID, models.StatusMatched,
		models.Mutation{Status: models.StatusCompleted, MatchedWith: offer.MatchedWith},
		models.Mutation{Status: models.StatusCompleted, MatchedWith: counterpart.MatchedWith},
	)
	if errors.Is(err, storage.ErrStatusConflict) || errors.Is(err, storage.ErrOfferNotFound) {
		return nil, nil, ErrNotMatched
	}
	if err != nil {
		return nil, nil, err
	}

	h.releasePairLock(a.ID, b.ID)
	h.publish(models.EventCompleted, a, b)
	log.Printf("Swap completed: %s and %s (confirmed by %s)", a.ID, b.ID, submitterID)
	return a, b, nil
}

// Decline розриває пару: обидва офери атомарно повертаються у pending без
// посилань одне на одного та без коду. Повторний decline по вже розірваній
// парі повертає ErrNotMatched — викликач має припинити повтори.
func (h *HandshakeService) Decline(offerID, requesterID string) (*models.Offer, *models.Offer, error) {
	offer, counterpart, err := h.loadPair(offerID)
	if err != nil {
		return nil, nil, err
	}

	lock := h.pairLock(offer.ID, counterpart.ID)
	lock.Lock()
	defer lock.Unlock()

	offer, counterpart, err = h.loadPair(offerID)
	if err != nil {
		return nil, nil, err
	}
	if !offer.IsParty(requesterID) && !counterpart.IsParty(requesterID) {
		return nil, nil, ErrForbidden
	}

	a, b, err := h.Storage.TransitionPair(
		offer.ID, counterpart.ID, models.StatusMatched,
		models.Mutation{Status: models.StatusPending},
		models.Mutation{Status: models.StatusPending},
	)
	if errors.Is(err, storage.ErrStatusConflict) || errors.Is(err, storage.ErrOfferNotFound) {
		return nil, nil, ErrNotMatched
	}
	if err != nil {
		return nil, nil, err
	}

	h.releasePairLock(a.ID, b.ID)
	h.publish(models.EventDeclined, a, b)
	log.Printf("Swap declined: %s and %s (by %s)", a.ID, b.ID, requesterID)
	return a, b, nil
}

// loadPair завантажує офер та його партнера. Будь-який стан, відмінний від
// коректно злінкованої matched-пари, дає ErrNotMatched.
func (h *HandshakeService) loadPair(offerID string) (*models.Offer, *models.Offer, error) {
	offer, err := h.Storage.GetOffer(offerID)
	if err != nil {
		return nil, nil, err
	}
	if offer.Status != models.StatusMatched || offer.MatchedWith == nil {
		return nil, nil, ErrNotMatched
	}

	counterpart, err := h.Storage.GetOffer(*offer.MatchedWith)
	if errors.Is(err, storage.ErrOfferNotFound) {
		return nil, nil, ErrNotMatched // обірване посилання
	}
	if err != nil {
		return nil, nil, err
	}
	return offer, counterpart, nil
}

// pairLock повертає м'ютекс пари; ключем слугує менший з двох ID, тому обидві
// сторони завжди отримують той самий замок.
func (h *HandshakeService) pairLock(idA, idB string) *sync.Mutex {
	key := idA
	if idB < idA {
		key = idB
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	lock, ok := h.pairLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		h.pairLocks[key] = lock
	}
	return lock
}

// releasePairLock прибирає м'ютекс пари після термінального переходу
// (completed або розрив). Пара вже не matched, тому нові виклики впадуть на
// loadPair ще до взяття замка; ті, хто вже чекає на старому м'ютексі, після
// перечитування отримають ErrNotMatched.
func (h *HandshakeService) releasePairLock(idA, idB string) {
	key := idA
	if idB < idA {
		key = idB
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.pairLocks, key)
}

func (h *HandshakeService) publish(eventType string, a, b *models.Offer) {
	ev := models.SwapEvent{
		Type:          eventType,
		OfferID:       a.ID,
		CounterpartID: b.ID,
		Parties:       []string{a.OwnerID, b.OwnerID},
	}
	if err := h.Storage.PublishEvent(ev); err != nil {
		log.Printf("ERROR: Failed to publish %s event for %s: %v", eventType, a.ID, err)
	}
}

// newConfirmationCode генерує короткий числовий код через crypto/rand.
func newConfirmationCode() (string, error) {
	buf := make([]byte, config.ConfirmationCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate confirmation code: %w", err)
	}
	for i := range buf {
		buf[i] = config.ConfirmationCodeCharset[int(buf[i])%len(config.ConfirmationCodeCharset)]
	}
	return string(buf), nil
}
