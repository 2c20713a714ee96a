package heatmap

import "errors"

// Sentinel kinds for heatmap errors.
var (
	ErrInvalidBand = errors.New("invalid neutral band")
	ErrUnknownMode = errors.New("unknown bucket mode")
)
