package broadcast

import "errors"

// ErrClosed is returned by Publish after the broadcaster was closed.
var ErrClosed = errors.New("broadcast: broadcaster is closed")
