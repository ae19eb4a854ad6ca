package swaphub_test

import (
	"swapgogo/backend/internal/models"
)

type MockClient struct {
	userID      string
	closed      bool
	RecvChannel chan models.SwapEvent
}

func newMockClient(userID string) *MockClient {
	return &MockClient{
		userID:      userID,
		RecvChannel: make(chan models.SwapEvent, 10),
	}
}

func (c *MockClient) GetUserID() string {
	return c.userID
}

func (c *MockClient) GetSendChannel() chan<- models.SwapEvent {
	return c.RecvChannel
}

func (c *MockClient) Close() {
	c.closed = true
}

func (c *MockClient) Run() {
	// Not needed for testing
}
