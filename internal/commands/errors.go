package commands

import "errors"

var (
	ErrInvalidHeader = errors.New("header must be of the form Name=value")
)
