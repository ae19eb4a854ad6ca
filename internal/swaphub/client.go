package swaphub

import "swapgogo/backend/internal/models"

// Client is the interface for any type of event-stream connection.
// It abstracts the underlying transport, allowing the hub to push lifecycle
// events to different client types uniformly.
type Client interface {
	// GetUserID returns the unique identifier for the user associated with the client.
	GetUserID() string

	// GetSendChannel returns the channel to which the ManagerService (hub)
	// sends events intended for this specific client. It is a send-only channel.
	GetSendChannel() chan<- models.SwapEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close gracefully shuts down the client's connection and associated channels.
	Close()
}
