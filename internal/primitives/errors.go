package primitives

import "errors"

// ErrCatenaParams is returned when Catena-512 is asked to run with a
// memory shift or iteration count outside the values it can honor.
var ErrCatenaParams = errors.New("primitives: invalid catena parameters")
