package typemap

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/okra-platform/swagger2graphql/internal/swagger"
)

var (
	// Build errors. Any of these aborts the whole schema build.
	ErrDefinitionNotFound       = errors.New("definition not found")
	ErrUnsupportedPrimitiveType = errors.New("unsupported primitive type")
	ErrUnrecognizedSchemaShape  = errors.New("unrecognized schema shape")
	ErrFieldNameCollision       = errors.New("field name collision")
)

// DefinitionNotFoundError is returned for a $ref whose target is missing from
// the definitions table.
type DefinitionNotFoundError struct {
	Name string
}

func (e *DefinitionNotFoundError) Error() string {
	return fmt.Sprintf("definition %s was not found in schema", e.Name)
}

func (e *DefinitionNotFoundError) Unwrap() error { return ErrDefinitionNotFound }

// UnsupportedPrimitiveTypeError is returned when a primitive tag has no scalar.
type UnsupportedPrimitiveTypeError struct {
	Type string
}

func (e *UnsupportedPrimitiveTypeError) Error() string {
	return fmt.Sprintf("cannot build primitive type %q", e.Type)
}

func (e *UnsupportedPrimitiveTypeError) Unwrap() error { return ErrUnsupportedPrimitiveType }

// UnrecognizedSchemaShapeError is returned for fragments with no type, schema,
// $ref, anyOf or properties.
type UnrecognizedSchemaShapeError struct {
	Title    string
	Fragment *swagger.Fragment
}

func (e *UnrecognizedSchemaShapeError) Error() string {
	raw, _ := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(e.Fragment)
	return fmt.Sprintf("don't know how to handle schema %s (%s) without type and schema", raw, e.Title)
}

func (e *UnrecognizedSchemaShapeError) Unwrap() error { return ErrUnrecognizedSchemaShape }

// FieldNameCollisionError is returned when two properties of one object map
// to the same GraphQL field name.
type FieldNameCollisionError struct {
	Type       string
	Field      string
	Properties []string
}

func (e *FieldNameCollisionError) Error() string {
	return fmt.Sprintf("%s: properties %q and %q both map to field %s", e.Type, e.Properties[0], e.Properties[1], e.Field)
}

func (e *FieldNameCollisionError) Unwrap() error { return ErrFieldNameCollision }
