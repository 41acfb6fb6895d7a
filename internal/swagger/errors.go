package swagger

import "errors"

var (
	// Loading errors
	ErrNoPaths           = errors.New("description has no paths")
	ErrUnsupportedSource = errors.New("unsupported description location")

	// Extraction errors
	ErrParameterNotFound = errors.New("parameter definition not found")

	// Templating errors
	ErrMissingPathParameter = errors.New("missing path parameter")
)
