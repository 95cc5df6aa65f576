package driver

import "errors"

// ErrInvalidDriver marks input validation failures. Callers check it with
// errors.Is to distinguish bad input from domain errors raised downstream.
var ErrInvalidDriver = errors.New("invalid driver input")
