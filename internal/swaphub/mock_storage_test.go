package swaphub_test

import (
	"swapgogo/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateOffer(offer *models.Offer) error {
	args := m.Called(offer)
	return args.Error(0)
}

func (m *MockStorage) GetOffer(id string) (*models.Offer, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockStorage) ListPendingOffers() ([]models.Offer, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Offer), args.Error(1)
}

func (m *MockStorage) ListOffersForUser(userID string) ([]models.Offer, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Offer), args.Error(1)
}

func (m *MockStorage) ListOffers(offset, limit int) ([]models.Offer, int64, error) {
	args := m.Called(offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Offer), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) CompareAndTransition(id, expectedStatus string, mut models.Mutation) (*models.Offer, error) {
	args := m.Called(id, expectedStatus, mut)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockStorage) TransitionPair(idA, idB, expectedStatus string, mA, mB models.Mutation) (*models.Offer, *models.Offer, error) {
	args := m.Called(idA, idB, expectedStatus, mA, mB)
	var a, b *models.Offer
	if args.Get(0) != nil {
		a = args.Get(0).(*models.Offer)
	}
	if args.Get(1) != nil {
		b = args.Get(1).(*models.Offer)
	}
	return a, b, args.Error(2)
}

func (m *MockStorage) DeleteOffer(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) PublishEvent(ev models.SwapEvent) error {
	args := m.Called(ev)
	return args.Error(0)
}
