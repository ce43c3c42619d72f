package logger

import (
	"github.com/google/uuid"
)

// NewEventID generates a new event correlation ID using UUID v4.
// One is minted per inbound platform event and per dashboard request.
func NewEventID() string {
	return uuid.New().String()
}
