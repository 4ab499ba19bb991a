package instance

import (
	"os"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/env"
)

// ID names the running process in logs: TOPPERS_INSTANCE_ID when set, then
// the platform dyno name, then the hostname.
func ID() string {
	if id := env.Get("TOPPERS_INSTANCE_ID", ""); id != "" {
		return id
	}
	if dyno := env.Get("DYNO", ""); dyno != "" {
		return dyno
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
