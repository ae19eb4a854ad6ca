package handler

import (
	"swapgogo/backend/internal/deals"
	"swapgogo/backend/internal/swaphub"
)

// Handler тримає посилання на сервіси ядра.
type Handler struct {
	Matcher   *swaphub.MatcherService
	Handshake *swaphub.HandshakeService
	Deals     *deals.Service
	Hub       *swaphub.ManagerService
}

func NewHandler(matcher *swaphub.MatcherService, handshake *swaphub.HandshakeService, dealsSvc *deals.Service, hub *swaphub.ManagerService) *Handler {
	return &Handler{
		Matcher:   matcher,
		Handshake: handshake,
		Deals:     dealsSvc,
		Hub:       hub,
	}
}
