package instance

import (
	"os"

	"github.com/angelmondragon/homeservices-backend/pkg/env"
)

// GetID identifies this process in logs and lock tokens. It prefers
// HOMESERVICES_INSTANCE_ID, then the platform's DYNO name.
func GetID() string {
	if id := env.First("HOMESERVICES_INSTANCE_ID", "DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
