package domain

import "time"

// Crossing is a single byte received from the detector together with the time it was observed.
// The byte is undecoded; interpreting it is the lap engine's job.
type Crossing struct {
	Raw byte
	At  time.Time
}
