package metrics

import "errors"

var (
	ErrNilRegistry = errors.New("metrics: nil registry")
	ErrRegister    = errors.New("metrics: failed to register collectors")
)
