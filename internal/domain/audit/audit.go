package audit

import "time"

// Record is one append-only entry describing an attempted gateway call:
// what was sent, what came back, how long it took. Immutable once written.
type Record struct {
	ID           int64
	Endpoint     string
	RequestData  map[string]any
	ResponseData map[string]any
	StatusCode   int
	Duration     float64 // seconds
	CreatedAt    time.Time
}
