package observability

import "github.com/tphakala/inat-gallery/internal/logger"

// getLogger resolves the module logger lazily so it picks up the global
// logger configured at startup.
func getLogger() logger.Logger {
	return logger.Global().Module("metrics")
}
