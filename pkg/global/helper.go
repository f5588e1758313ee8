package global

import (
	"context"
	"os"
	"strings"
	"time"
)

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetDefaultTimer() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// IsDevMode reports whether the service runs without external services
// (in-memory storage, simulated order placement).
func IsDevMode() bool {
	v := strings.ToLower(os.Getenv("DEV_MODE"))
	return v == "1" || v == "true"
}
