package daemon

import "errors"

// ErrNilConfig is returned by New when no configuration is given.
var ErrNilConfig = errors.New("config is nil")
