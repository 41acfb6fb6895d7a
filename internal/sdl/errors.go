package sdl

import "errors"

var ErrNoQueryType = errors.New("schema has no Query type")
