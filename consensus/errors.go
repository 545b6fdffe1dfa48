package consensus

import "errors"

// ErrInvalidInput indicates a malformed baseline result: confidence outside
// [0, 1] or an empty label. This is a caller bug, not a runtime condition,
// and is never patched over silently.
var ErrInvalidInput = errors.New("invalid baseline classification")
