package typemap

import "github.com/okra-platform/swagger2graphql/internal/swagger"

// Shape is how the builder interprets a fragment. Several keys may be present
// at once, so Classify applies a fixed precedence.
type Shape int

const (
	ShapeUnrecognized Shape = iota
	ShapeEmpty
	ShapeReference
	ShapeWrapper
	ShapeArray
	ShapePrimitive
	ShapeUnion
	ShapeObject
)

var shapeNames = map[Shape]string{
	ShapeUnrecognized: "unrecognized",
	ShapeEmpty:        "empty",
	ShapeReference:    "reference",
	ShapeWrapper:      "wrapper",
	ShapeArray:        "array",
	ShapePrimitive:    "primitive",
	ShapeUnion:        "union",
	ShapeObject:       "object",
}

func (s Shape) String() string {
	return shapeNames[s]
}

// Classify determines the shape of f. Precedence: empty, reference, schema
// wrapper, array, primitive, union, object.
func Classify(f *swagger.Fragment) Shape {
	switch {
	case f.IsEmpty():
		return ShapeEmpty
	case f.RefTarget() != "":
		return ShapeReference
	case f.Schema != nil:
		return ShapeWrapper
	case f.Type == "array":
		return ShapeArray
	case f.Type != "" && (f.Type != "object" || f.Properties == nil):
		return ShapePrimitive
	case f.AnyOf != nil:
		return ShapeUnion
	case f.Properties != nil:
		return ShapeObject
	default:
		return ShapeUnrecognized
	}
}

// ItemsShape is how the element type of an array fragment is derived.
type ItemsShape int

const (
	ItemsPrimitive ItemsShape = iota
	ItemsAbsent
	ItemsReference
	ItemsWrapper
	ItemsComplex
)

// ClassifyItems determines how to build the element type of an array.
func ClassifyItems(items *swagger.Fragment) ItemsShape {
	switch {
	case items == nil:
		return ItemsAbsent
	case items.Ref != "":
		return ItemsReference
	case items.Schema != nil:
		return ItemsWrapper
	case items.Properties != nil || items.Type == "object" || items.Type == "array" || items.AnyOf != nil:
		return ItemsComplex
	default:
		return ItemsPrimitive
	}
}
