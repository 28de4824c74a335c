package ports

import "time"

// Clock abstracts time for the execution simulator, so the artificial
// per-step pause is deterministic in tests. It is not a suspension
// point: no cancellation or backpressure semantics are attached.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}
