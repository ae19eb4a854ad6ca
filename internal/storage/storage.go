package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"swapgogo/backend/internal/config"
	"swapgogo/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	// ErrOfferNotFound повертається, коли офера з таким ID не існує.
	ErrOfferNotFound = errors.New("offer not found")
	// ErrStatusConflict — сигнал оптимістичної конкуренції: статус офера
	// змінився з моменту читання. Виклик можна безпечно повторити.
	ErrStatusConflict = errors.New("offer status changed concurrently")
)

// Storage — єдиний шлях читання та мутації оферів. Поля життєвого циклу
// (status, matched_with, confirmation_code) змінюються виключно через
// CompareAndTransition / TransitionPair.
type Storage interface {
	CreateOffer(offer *models.Offer) error
	GetOffer(id string) (*models.Offer, error)

	// ListPendingOffers повертає всі pending-офери у порядку створення.
	ListPendingOffers() ([]models.Offer, error)
	// ListOffersForUser повертає офери, якими володіє користувач або з
	// якими його офери зіставлені, у порядку створення.
	ListOffersForUser(userID string) ([]models.Offer, error)
	// ListOffers повертає сторінку всіх оферів та загальну кількість.
	ListOffers(offset, limit int) ([]models.Offer, int64, error)

	// CompareAndTransition застосовує мутацію, лише якщо поточний статус
	// дорівнює expectedStatus. Інакше — ErrStatusConflict.
	CompareAndTransition(id, expectedStatus string, m models.Mutation) (*models.Offer, error)
	// TransitionPair застосовує обидві мутації атомарно: або обидва офери
	// переходять, або жоден.
	TransitionPair(idA, idB, expectedStatus string, mA, mB models.Mutation) (*models.Offer, *models.Offer, error)

	DeleteOffer(id string) error

	PublishEvent(ev models.SwapEvent) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// CreateOffer зберігає новий офер у PostgreSQL зі статусом pending.
func (s *Service) CreateOffer(offer *models.Offer) error {
	offer.Status = models.StatusPending
	offer.MatchedWith = nil
	offer.ConfirmationCode = nil
	offer.CodeIssuedBy = nil
	return s.DB.Create(offer).Error
}

// GetOffer повертає офер за ID або ErrOfferNotFound.
func (s *Service) GetOffer(id string) (*models.Offer, error) {
	var offer models.Offer
	err := s.DB.Where("id = ?", id).First(&offer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOfferNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get offer %s: %v", id, err)
		return nil, err
	}
	return &offer, nil
}

func (s *Service) ListPendingOffers() ([]models.Offer, error) {
	var offers []models.Offer
	err := s.DB.Where("status = ?", models.StatusPending).
		Order("created_at asc, id asc").
		Find(&offers).Error
	if err != nil {
		log.Printf("ERROR: Failed to list pending offers: %v", err)
		return nil, err
	}
	return offers, nil
}

func (s *Service) ListOffersForUser(userID string) ([]models.Offer, error) {
	// Офери користувача плюс чужі офери, зіставлені з його оферами.
	ownIDs := s.DB.Model(&models.Offer{}).Select("id").Where("owner_id = ?", userID)

	var offers []models.Offer
	err := s.DB.Where("owner_id = ? OR matched_with IN (?)", userID, ownIDs).
		Order("created_at asc, id asc").
		Find(&offers).Error
	if err != nil {
		log.Printf("ERROR: Failed to list offers for user %s: %v", userID, err)
		return nil, err
	}
	return offers, nil
}

func (s *Service) ListOffers(offset, limit int) ([]models.Offer, int64, error) {
	var total int64
	if err := s.DB.Model(&models.Offer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var offers []models.Offer
	err := s.DB.Order("created_at asc, id asc").
		Offset(offset).Limit(limit).
		Find(&offers).Error
	if err != nil {
		return nil, 0, err
	}
	return offers, total, nil
}

// CompareAndTransition виконує умовний UPDATE, звірений зі статусом.
// Перевірка RowsAffected і є нашим compare-and-swap: при конкурентній зміні
// статусу жоден рядок не оновлюється.
func (s *Service) CompareAndTransition(id, expectedStatus string, m models.Mutation) (*models.Offer, error) {
	res := s.DB.Model(&models.Offer{}).
		Where("id = ? AND status = ?", id, expectedStatus).
		Updates(m.Columns())
	if res.Error != nil {
		log.Printf("ERROR: Failed to transition offer %s: %v", id, res.Error)
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Розрізняємо "не знайдено" та "статус уже інший".
		if _, err := s.GetOffer(id); err != nil {
			return nil, err
		}
		return nil, ErrStatusConflict
	}
	return s.GetOffer(id)
}

// TransitionPair виконує обидва умовні UPDATE в одній транзакції.
// Якщо хоча б один офер більше не у expectedStatus, транзакція відкочується.
func (s *Service) TransitionPair(idA, idB, expectedStatus string, mA, mB models.Mutation) (*models.Offer, *models.Offer, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, step := range []struct {
			id string
			m  models.Mutation
		}{{idA, mA}, {idB, mB}} {
			res := tx.Model(&models.Offer{}).
				Where("id = ? AND status = ?", step.id, expectedStatus).
				Updates(step.m.Columns())
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var count int64
				if err := tx.Model(&models.Offer{}).Where("id = ?", step.id).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return ErrOfferNotFound
				}
				return ErrStatusConflict
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	a, err := s.GetOffer(idA)
	if err != nil {
		return nil, nil, err
	}
	b, err := s.GetOffer(idB)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func (s *Service) DeleteOffer(id string) error {
	res := s.DB.Where("id = ?", id).Delete(&models.Offer{})
	if res.Error != nil {
		log.Printf("ERROR: Failed to delete offer %s: %v", id, res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOfferNotFound
	}
	return nil
}

// PublishEvent публікує подію життєвого циклу в Redis Pub/Sub.
func (s *Service) PublishEvent(ev models.SwapEvent) error {
	if s.Redis == nil {
		return nil // admin CLI працює без Redis
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, config.EventChannel, string(payload)).Err()
}

// SubscribeEvents підписується на канал подій (використовується хабом).
func (s *Service) SubscribeEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, config.EventChannel)
}

// CountOffersByStatus повертає кількість оферів за кожним статусом.
// Використовується адмінським CLI.
func (s *Service) CountOffersByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := s.DB.Model(&models.Offer{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
