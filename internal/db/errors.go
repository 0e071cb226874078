package db

import "errors"

// ErrInvalidLookupStat is returned when a lookup stat lacks its key or outcome.
var ErrInvalidLookupStat = errors.New("query key and outcome are required")
