// Package table holds the tabular transforms behind the standings and
// draft views: nil-aware sorting, averaging and all-time aggregation.
package table

import (
	"cmp"
	"slices"
)

// SortBy orders rows in place by key. Rows whose key is nil go last in
// both directions. Equal keys fall back to tie, then to input order.
func SortBy[T any](rows []T, key func(T) *float64, desc bool, tie func(a, b T) int) {
	slices.SortStableFunc(rows, func(a, b T) int {
		ka, kb := key(a), key(b)
		switch {
		case ka == nil && kb == nil:
			return tieOrZero(tie, a, b)
		case ka == nil:
			return 1
		case kb == nil:
			return -1
		}
		c := cmp.Compare(*ka, *kb)
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return tieOrZero(tie, a, b)
	})
}

func tieOrZero[T any](tie func(a, b T) int, a, b T) int {
	if tie == nil {
		return 0
	}
	return tie(a, b)
}

// Average is the mean of the non-nil values, or nil when there are none.
func Average(values []*float64) *float64 {
	var sum float64
	n := 0
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}
