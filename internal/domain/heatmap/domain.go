package heatmap

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Domain is the [Min, Max] range of the visible dataset for one metric.
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DomainOf computes the domain over the non-nil samples. ok is false when
// every sample is nil.
func DomainOf(values []*float64) (d Domain, ok bool) {
	for _, v := range values {
		if v == nil {
			continue
		}
		if !ok {
			d = Domain{Min: *v, Max: *v}
			ok = true
			continue
		}
		if *v < d.Min {
			d.Min = *v
		}
		if *v > d.Max {
			d.Max = *v
		}
	}
	return d, ok
}

// Normalize maps v into [0,1] over the domain, clamping out-of-range
// values. A degenerate domain maps everything to the centre.
func (d Domain) Normalize(v float64) float64 {
	if d.Max <= d.Min {
		return 0.5
	}
	t := (v - d.Min) / (d.Max - d.Min)
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// Band is the normalized range treated as Neutral in ScaledRange mode.
type Band struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Common bands.
var (
	DefaultBand = Band{Lo: 0.40, Hi: 0.60}
	NarrowBand  = Band{Lo: 0.45, Hi: 0.55}
)

// Validate requires finite bounds with 0 <= Lo <= Hi <= 1.
func (b Band) Validate() error {
	if !finite(b.Lo) || !finite(b.Hi) {
		return fmt.Errorf("%w: [%g,%g] is not finite", ErrInvalidBand, b.Lo, b.Hi)
	}
	if b.Lo < 0 || b.Hi > 1 || b.Lo > b.Hi {
		return fmt.Errorf("%w: [%g,%g]", ErrInvalidBand, b.Lo, b.Hi)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ParseBand parses "lo,hi", e.g. "0.45,0.55".
func ParseBand(s string) (Band, error) {
	lo, hi, found := strings.Cut(s, ",")
	if !found {
		return Band{}, fmt.Errorf("%w: %q is not lo,hi", ErrInvalidBand, s)
	}
	l, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return Band{}, fmt.Errorf("%w: %v", ErrInvalidBand, err)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return Band{}, fmt.Errorf("%w: %v", ErrInvalidBand, err)
	}
	b := Band{Lo: l, Hi: h}
	if err := b.Validate(); err != nil {
		return Band{}, err
	}
	return b, nil
}

// String formats the band as "lo,hi".
func (b Band) String() string {
	return strconv.FormatFloat(b.Lo, 'f', -1, 64) + "," + strconv.FormatFloat(b.Hi, 'f', -1, 64)
}
