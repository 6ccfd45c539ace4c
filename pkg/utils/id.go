package utils

import (
	"time"

	"github.com/google/uuid"
)

// GenerateRunID generates a run ID with a timestamp prefix, e.g. "run-20250101-120000-1a2b3c4d"
func GenerateRunID() string {
	timestamp := time.Now().Format("20060102-150405")
	return "run-" + timestamp + "-" + uuid.NewString()[:8]
}

// GenerateRequestID generates a random request ID
func GenerateRequestID() string {
	return uuid.NewString()
}
