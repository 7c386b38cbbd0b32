package config

import "errors"

var (
	// ErrParsingConfig wraps every Parse and Load failure.
	ErrParsingConfig = errors.New("config: parse environment")

	// ErrLoadingEnvFile is returned for an env file that exists but cannot be read.
	ErrLoadingEnvFile = errors.New("config: load env file")

	// ErrNilPointer is returned by Load for a nil destination.
	ErrNilPointer = errors.New("config: nil destination")
)
