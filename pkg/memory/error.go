package memory

import "errors"

// ErrNotConfigured is returned when long-term operations are attempted
// without a fact store.
var ErrNotConfigured = errors.New("long-term memory not configured")
