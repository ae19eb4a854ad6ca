package handler

import (
	"net/http"

	"swapgogo/backend/internal/models"
	"swapgogo/backend/internal/swaphub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Дозволяє з'єднання з будь-якого домену. У продакшені налаштувати!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket оновлює HTTP-з'єднання до WebSocket і підключає користувача
// до потоку подій життєвого циклу його свопів.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	userID := currentUser(c) // виставлено middleware AuthRequired

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &swaphub.WebSocketClient{
		Hub:    h.Hub,
		UserID: userID,
		Conn:   conn,
		Send:   make(chan models.SwapEvent, 64),
	}

	// Реєстрація клієнта в хабі подій
	h.Hub.RegisterCh <- client

	// client.Run() сам запустить необхідні goroutines
	client.Run()
}
