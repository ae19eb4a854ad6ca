package swaphub

import (
	"encoding/json"
	"log"

	"swapgogo/backend/internal/models"
	"swapgogo/backend/internal/storage"
)

// EventNotifier отримує копію кожної події життєвого циклу (напр., Telegram-
// сповіщення для адміністратора). Необов'язковий.
type EventNotifier interface {
	NotifyEvent(ev models.SwapEvent)
}

// ManagerService доставляє події свопів підключеним клієнтам обох сторін пари.
type ManagerService struct {
	Clients map[string]Client // ключ — user id

	// Channels
	EventCh chan models.SwapEvent

	RegisterCh   chan Client
	UnregisterCh chan Client

	Notifier EventNotifier
}

// NewManagerService створює новий хаб подій.
func NewManagerService() *ManagerService {
	return &ManagerService{
		Clients:      make(map[string]Client),
		EventCh:      make(chan models.SwapEvent, 64),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
	}
}

// Run — головний цикл хаба: реєстрація клієнтів та розсилка подій.
func (m *ManagerService) Run() {
	for {
		select {
		case client := <-m.RegisterCh:
			if old, ok := m.Clients[client.GetUserID()]; ok {
				old.Close() // нове з'єднання витісняє старе
			}
			m.Clients[client.GetUserID()] = client
			log.Printf("Client registered: %s", client.GetUserID())

		case client := <-m.UnregisterCh:
			if current, ok := m.Clients[client.GetUserID()]; ok && current == client {
				delete(m.Clients, client.GetUserID())
				client.Close()
				log.Printf("Client unregistered: %s", client.GetUserID())
			}

		case ev := <-m.EventCh:
			m.dispatch(ev)
		}
	}
}

// dispatch надсилає подію клієнтам обох сторін пари, якщо вони підключені.
func (m *ManagerService) dispatch(ev models.SwapEvent) {
	for _, party := range ev.Parties {
		client, ok := m.Clients[party]
		if !ok {
			continue
		}
		select {
		case client.GetSendChannel() <- ev:
		default:
			// Клієнт не встигає читати — від'єднуємо його.
			delete(m.Clients, party)
			client.Close()
		}
	}

	if m.Notifier != nil {
		m.Notifier.NotifyEvent(ev)
	}
}

// StartPubSubListener запускає Goroutine, яка слухає Redis Pub/Sub і
// передає отримані події у головний цикл хаба. Завдяки цьому події,
// опубліковані іншим екземпляром сервера, теж доходять до клієнтів.
func (m *ManagerService) StartPubSubListener(s *storage.Service) {
	go func() {
		pubsub := s.SubscribeEvents()
		defer pubsub.Close()

		ch := pubsub.Channel()
		for msg := range ch {
			var ev models.SwapEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("Error unmarshalling Redis event: %v", err)
				continue
			}
			m.EventCh <- ev
		}
	}()
}
