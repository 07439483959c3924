package adenv

import "errors"

var (
	// ErrConfiguration covers malformed input, missing columns, bad ratios and empty datasets
	ErrConfiguration = errors.New("configuration error")
	// ErrBlockAlignment is returned when a dataset length is not a multiple of K
	ErrBlockAlignment = errors.New("block alignment error")
	// ErrIndexOutOfRange is returned when a step resolves beyond the available blocks
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInvalidAction is returned for anything that is not a one-hot vector of length K+1
	ErrInvalidAction = errors.New("invalid action")
)
