// internal/handlers/compose-price/config.go
package composeprice

import "time"

// Config holds the coordinator settings for one gateway process.
type Config struct {
	// OverallDeadline bounds a whole composed request; unresolved downstream
	// calls are forced to a timeout failure when it elapses.
	OverallDeadline time.Duration

	CacheEnabled bool
	CacheTTL     time.Duration
}
