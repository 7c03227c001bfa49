package service

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrParentNotFound   = errors.New("parent category not found")
	ErrNilProduct       = errors.New("product must not be nil")
	ErrCannotRemoveRoot = errors.New("root category cannot be removed")
	ErrEmptyCatalog     = errors.New("catalog is empty")
	// ErrCycle is returned when a category would be attached below itself
	ErrCycle = errors.New("category cannot become a subcategory of its own descendant")
)
