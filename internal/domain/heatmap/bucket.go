// Package heatmap classifies metric values into discrete color-intensity
// buckets for the dashboard heatmaps.
package heatmap

import "fmt"

// Bucket is a discrete visual intensity class. The zero value is Unknown.
type Bucket int

// Buckets ordered from most negative to most positive. Unknown sits
// outside the scale.
const (
	Unknown Bucket = iota
	Negative3
	Negative2
	Negative1
	Neutral
	Positive1
	Positive2
	Positive3
)

var bucketNames = map[Bucket]string{
	Unknown:   "unknown",
	Negative3: "negative-3",
	Negative2: "negative-2",
	Negative1: "negative-1",
	Neutral:   "neutral",
	Positive1: "positive-1",
	Positive2: "positive-2",
	Positive3: "positive-3",
}

// String returns the stable bucket name used in API payloads and CSS classes.
func (b Bucket) String() string {
	if name, ok := bucketNames[b]; ok {
		return name
	}
	return fmt.Sprintf("bucket(%d)", int(b))
}

// MarshalText implements encoding.TextMarshaler.
func (b Bucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Intensity is 0 for Neutral and Unknown, otherwise the tier 1..3.
func (b Bucket) Intensity() int {
	switch {
	case b == Unknown || b == Neutral:
		return 0
	case b > Neutral:
		return int(b - Neutral)
	default:
		return int(Neutral - b)
	}
}

// Sign is -1, 0 or +1.
func (b Bucket) Sign() int {
	switch {
	case b == Unknown || b == Neutral:
		return 0
	case b > Neutral:
		return 1
	default:
		return -1
	}
}

func signed(sign, tier int) Bucket {
	if sign > 0 {
		return Neutral + Bucket(tier)
	}
	return Neutral - Bucket(tier)
}

// Mode selects how a value is mapped onto the scale.
type Mode int

const (
	// ScaledRange normalizes the value into [0,1] over the domain and
	// compares it with the neutral band. Used for rate and points metrics.
	ScaledRange Mode = iota
	// CenteredThreshold compares the raw signed value against fixed cut
	// points around zero. Used for value-vs-expectation metrics.
	CenteredThreshold
)

func (m Mode) String() string {
	switch m {
	case ScaledRange:
		return "scaled-range"
	case CenteredThreshold:
		return "centered-threshold"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts "scaled-range" or "centered-threshold".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "scaled-range":
		return ScaledRange, nil
	case "centered-threshold":
		return CenteredThreshold, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}
