package kdf

import "errors"

// ErrKdfFailed is returned when any per-thread Catena-512 run failed.
var ErrKdfFailed = errors.New("kdf: one or more thread derivations failed")

var errKdfFailed = ErrKdfFailed
