package inventory

import "errors"

// Errors returned by Store operations. They are wrapped with the offending
// identifier, so match them with errors.Is.
var (
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
	ErrNotFound            = errors.New("item not found")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInvalidIdentifier   = errors.New("invalid identifier")
	ErrInconsistent        = errors.New("inventory indices inconsistent")
)
