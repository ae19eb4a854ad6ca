package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"swapgogo/backend/internal/api/handler"
	"swapgogo/backend/internal/deals"
	"swapgogo/backend/internal/models"
	"swapgogo/backend/internal/notify"
	"swapgogo/backend/internal/storage"
	"swapgogo/backend/internal/swaphub"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies() (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		envOr("DB_HOST", "localhost"),
		envOr("DB_USER", "user"),
		envOr("DB_PASSWORD", "password"),
		envOr("DB_NAME", "swapgogodb"),
		envOr("DB_PORT", "5432"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	// Перевірка з'єднання Redis
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	// 3. Міграції (Створення таблиць)
	if err := db.AutoMigrate(&models.Offer{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	log.Println("Starting SwapGoGo Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	// 1. Ініціалізація хаба подій
	hub := swaphub.NewManagerService()
	go hub.Run()

	// 2. Ініціалізація сховища
	var store storage.Storage
	if os.Getenv("DB_BACKEND") == "memory" {
		// In-memory режим для локальної розробки: без Postgres та Redis.
		memStore := storage.NewMemoryStore()
		store = memStore
		go func() {
			for ev := range memStore.Events {
				hub.EventCh <- ev
			}
		}()
		log.Println("Running with in-memory storage (DB_BACKEND=memory).")
	} else {
		db, rdb := setupDependencies()
		svc := storage.NewStorageService(db, rdb)
		store = svc
		hub.StartPubSubListener(svc)
	}

	// 3. Сервіси ядра
	matcher := swaphub.NewMatcherService(store)
	handshake := swaphub.NewHandshakeService(store)
	dealsSvc := deals.NewService(store)

	// 4. Telegram-сповіщення для адміністратора (опційно)
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_ADMIN_CHAT_ID"), 10, 64)
		if err != nil {
			log.Println("Warning: TELEGRAM_ADMIN_CHAT_ID не встановлено, сповіщення вимкнено")
		} else {
			bot, err := notify.NewBotService(token, chatID)
			if err != nil {
				log.Printf("Warning: Failed to start Telegram notifier: %v", err)
			} else {
				hub.Notifier = bot
			}
		}
	}

	// 5. Налаштування Gin та роутингу
	r := gin.Default()
	h := handler.NewHandler(matcher, handshake, dealsSvc, hub)

	// Роути
	r.GET("/token", h.GetToken)   // Отримання JWT
	r.GET("/offers", h.ListOffers) // Публічний список

	auth := r.Group("/", handler.AuthRequired())
	{
		auth.POST("/offers", h.CreateOffer)
		auth.GET("/offers/active", h.ListActive)
		auth.GET("/offers/history", h.ListHistory)
		auth.GET("/offers/:id", h.GetOffer)
		auth.POST("/offers/:id/generate-code", h.GenerateCode)
		auth.POST("/offers/:id/confirm-code", h.ConfirmCode)
		auth.POST("/offers/:id/decline", h.Decline)
		auth.DELETE("/offers/history", h.ClearHistory)
		auth.DELETE("/offers/:id", h.DeleteOffer)
		auth.GET("/ws", h.ServeWebSocket) // WebSocket Upgrade
	}

	// Запуск HTTP-сервера
	server := &http.Server{
		Addr:           ":" + envOr("PORT", "8080"),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
