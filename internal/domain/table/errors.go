package table

import "errors"

// ErrUnknownColumn is returned when a sort key does not name a standings column.
var ErrUnknownColumn = errors.New("unknown column")
