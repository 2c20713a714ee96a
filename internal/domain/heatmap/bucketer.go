package heatmap

import "math"

// Default classification constants.
const (
	defaultNeutralThreshold = 0.1
	defaultTier2Cut         = 5.0
	defaultTier3Cut         = 10.0
	upperTierCut            = 0.66
	middleTierCut           = 0.33
)

// Option applies a configuration option to the Bucketer.
type Option func(*Bucketer)

// WithBand sets the neutral band used in ScaledRange mode. An invalid band
// is ignored and the Bucketer keeps DefaultBand; validate caller input with
// Band.Validate or ParseBand first.
func WithBand(b Band) Option {
	return func(bk *Bucketer) {
		if b.Validate() == nil {
			bk.band = b
		}
	}
}

// WithCenteredCuts sets the CenteredThreshold cut points: |v| <= neutral is
// Neutral, |v| > tier2 is tier 2, |v| > tier3 is tier 3.
func WithCenteredCuts(neutral, tier2, tier3 float64) Option {
	return func(bk *Bucketer) {
		if neutral >= 0 && tier2 > neutral && tier3 > tier2 {
			bk.neutral, bk.tier2, bk.tier3 = neutral, tier2, tier3
		}
	}
}

// Bucketer maps metric values to buckets. It is immutable after
// construction and safe for concurrent use.
type Bucketer struct {
	band    Band
	neutral float64
	tier2   float64
	tier3   float64
}

// NewBucketer creates a Bucketer with the default band and cut points.
func NewBucketer(opts ...Option) *Bucketer {
	bk := &Bucketer{
		band:    DefaultBand,
		neutral: defaultNeutralThreshold,
		tier2:   defaultTier2Cut,
		tier3:   defaultTier3Cut,
	}
	for _, opt := range opts {
		opt(bk)
	}
	return bk
}

// Band returns the configured neutral band.
func (bk *Bucketer) Band() Band { return bk.band }

// Bucket classifies value against the domain. A nil (or NaN) value is
// Unknown; a degenerate domain (Min == Max) is always Neutral.
func (bk *Bucketer) Bucket(value *float64, d Domain, mode Mode) Bucket {
	if value == nil || math.IsNaN(*value) {
		return Unknown
	}
	if d.Min == d.Max {
		return Neutral
	}
	v := *value
	if mode == CenteredThreshold {
		return bk.centered(v)
	}
	return bk.scaled(d.Normalize(v))
}

func (bk *Bucketer) centered(v float64) Bucket {
	abs := math.Abs(v)
	if abs <= bk.neutral {
		return Neutral
	}
	sign := 1
	if v < 0 {
		sign = -1
	}
	switch {
	case abs > bk.tier3:
		return signed(sign, 3)
	case abs > bk.tier2:
		return signed(sign, 2)
	default:
		return signed(sign, 1)
	}
}

func (bk *Bucketer) scaled(t float64) Bucket {
	lo, hi := bk.band.Lo, bk.band.Hi
	switch {
	case t >= lo && t <= hi:
		return Neutral
	case t > hi:
		return signed(1, tier((t-hi)/(1-hi)))
	default:
		return signed(-1, tier((lo-t)/lo))
	}
}

// tier splits an excess in (0,1] into three intensity tiers.
func tier(excess float64) int {
	switch {
	case excess > upperTierCut:
		return 3
	case excess > middleTierCut:
		return 2
	default:
		return 1
	}
}

// Classify is the stateless form of Bucketer.Bucket with the default cut
// points and a caller-specified band. An invalid band classifies every
// value as Unknown.
func Classify(value *float64, min, max float64, mode Mode, band Band) Bucket {
	if band.Validate() != nil {
		return Unknown
	}
	return NewBucketer(WithBand(band)).Bucket(value, Domain{Min: min, Max: max}, mode)
}
