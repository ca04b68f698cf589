package hand

import "errors"

var (
	ErrUnknownButton = errors.New("unknown button")
	ErrInvalidConfig = errors.New("invalid hand config")
	ErrMissingOption = errors.New("missing hand option")
)
