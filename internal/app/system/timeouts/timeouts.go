// internal/app/system/timeouts/timeouts.go

// Package timeouts centralizes the context deadlines used for database
// work in handlers. One place to tune, consistent everywhere.
//
// Rough guide: Ping for health checks, Short for single-document reads,
// Medium for list queries and ordinary writes, Long for multi-collection
// writes, Batch for fan-outs like reminder sweeps.
package timeouts

import "time"

const (
	ping   = 2 * time.Second
	short  = 5 * time.Second
	medium = 10 * time.Second
	long   = 30 * time.Second
	batch  = 60 * time.Second
)

// Ping returns the timeout for connectivity checks.
func Ping() time.Duration { return ping }

// Short returns the timeout for single-document lookups.
func Short() time.Duration { return short }

// Medium returns the timeout for list queries and simple writes.
func Medium() time.Duration { return medium }

// Long returns the timeout for writes touching multiple collections.
func Long() time.Duration { return long }

// Batch returns the timeout for bulk operations like notification fan-outs.
func Batch() time.Duration { return batch }
