// Package notify mirrors swap lifecycle events to a Telegram chat so that
// operators can watch the marketplace without tailing logs.
package notify

import (
	"fmt"
	"log"

	"swapgogo/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotService надсилає сповіщення про події свопів у адмінський чат.
type BotService struct {
	BotAPI      *tgbotapi.BotAPI
	AdminChatID int64
}

// NewBotService creates a new BotService instance.
func NewBotService(token string, adminChatID int64) (*BotService, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("✅ Authorized on account %s", bot.Self.UserName)

	return &BotService{
		BotAPI:      bot,
		AdminChatID: adminChatID,
	}, nil
}

// NotifyEvent реалізує swaphub.EventNotifier.
func (s *BotService) NotifyEvent(ev models.SwapEvent) {
	var text string
	switch ev.Type {
	case models.EventMatched:
		text = fmt.Sprintf("🟡 New match: %s ↔ %s", ev.OfferID, ev.CounterpartID)
	case models.EventCompleted:
		text = fmt.Sprintf("✅ Swap completed: %s ↔ %s", ev.OfferID, ev.CounterpartID)
	case models.EventDeclined:
		text = fmt.Sprintf("❌ Swap declined: %s ↔ %s", ev.OfferID, ev.CounterpartID)
	default:
		return
	}

	msg := tgbotapi.NewMessage(s.AdminChatID, text)
	if _, err := s.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: Failed to send Telegram notification: %v", err)
	}
}
