package main

import (
	"fmt"
	"log"
	"os"

	"swapgogo/backend/internal/deals"
	"swapgogo/backend/internal/models"
	"swapgogo/backend/internal/storage"
	"swapgogo/backend/internal/swaphub"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "unmatch":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin unmatch <offer_id>")
			os.Exit(1)
		}
		offerID := os.Args[2]
		if err := unmatchPair(storageSvc, offerID); err != nil {
			log.Fatalf("Error unmatching pair: %v", err)
		}
		fmt.Printf("Pair containing offer %s has been unmatched.\n", offerID)
	case "purge":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin purge <user_id>")
			os.Exit(1)
		}
		userID := os.Args[2]
		deleted, err := deals.NewService(storageSvc).ClearHistory(userID)
		if err != nil {
			log.Fatalf("Error purging history: %v", err)
		}
		fmt.Printf("Deleted %d offers for user %s.\n", deleted, userID)
	case "stats":
		counts, err := storageSvc.CountOffersByStatus()
		if err != nil {
			log.Fatalf("Error collecting stats: %v", err)
		}
		for _, status := range []string{models.StatusPending, models.StatusMatched, models.StatusCompleted, models.StatusDeclined} {
			fmt.Printf("%-10s %d\n", status, counts[status])
		}
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

// unmatchPair розриває застряглу пару від імені власника офера.
func unmatchPair(s storage.Storage, offerID string) error {
	offer, err := s.GetOffer(offerID)
	if err != nil {
		return err
	}

	handshake := swaphub.NewHandshakeService(s)
	_, _, err = handshake.Decline(offerID, offer.OwnerID)
	return err
}
