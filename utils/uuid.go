package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a fresh random identifier, used for auction and
// stream-client ids. Identifiers are opaque to the engine; nothing is
// derived from their contents.
func GenerateID() string {
	return uuid.New().String()
}
