package gqlschema

import "errors"

var (
	// Assembly errors
	ErrNoQueryFields = errors.New("did not find any query endpoints")
	ErrInvalidSchema = errors.New("invalid schema")
)
