package analytics

import "errors"

// ErrNoData is returned instead of a number when there is nothing to aggregate.
var ErrNoData = errors.New("no data")
