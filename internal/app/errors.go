package service

import "errors"

// Sentinel errors returned for bad caller input.
var (
	ErrUnknownMetric = errors.New("unknown metric")
	ErrUnknownSeason = errors.New("unknown season")
)
