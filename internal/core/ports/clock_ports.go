package ports

import "time"

type Clock interface {
	Now() time.Time
	// NewTicker returns a channel firing every d and a stop function.
	NewTicker(d time.Duration) (<-chan time.Time, func())
}
