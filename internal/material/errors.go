package material

import "errors"

var (
	// ErrUnknownType is returned when a product or material type id is absent from the lookup.
	ErrUnknownType = errors.New("unknown type")
	// ErrInvalidQuantity is returned for a negative required or stock quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInvalidParameter is returned for a non-positive shape parameter.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInvalidInput is returned for malformed or non-numeric caller values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrLookupUnavailable is returned when the coefficient lookup fails or serves
	// reference data outside its documented range.
	ErrLookupUnavailable = errors.New("lookup unavailable")

	// ErrNotFound is returned by Lookup implementations for a missing id.
	ErrNotFound = errors.New("not found")
)

// IsValidation reports whether err was caused by the caller's input rather than
// by the lookup backend.
func IsValidation(err error) bool {
	return errors.Is(err, ErrUnknownType) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidParameter) ||
		errors.Is(err, ErrInvalidInput)
}

// Kind returns a stable name for the error class of err, or "" when err does not
// belong to the calculator taxonomy.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrUnknownType):
		return "unknown_type"
	case errors.Is(err, ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, ErrInvalidParameter):
		return "invalid_parameter"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrLookupUnavailable):
		return "lookup_unavailable"
	default:
		return ""
	}
}
