package runtime

import "time"

// realClock is the default ports.Clock; Sleep blocks for the step's
// simulated latency.
type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }
