package config

import "errors"

var ErrConfigNotFound = errors.New("no " + FileName + " found in directory or any parent")
