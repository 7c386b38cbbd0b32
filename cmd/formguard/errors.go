package main

import "errors"

var errInvalidLogFormat = errors.New("invalid log format: must be json or text")
