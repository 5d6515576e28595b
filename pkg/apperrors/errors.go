package apperrors

import "errors"

var (
	ErrNoInput         = errors.New("no ingredient text, barcode, or image text supplied")
	ErrMalformedKB     = errors.New("knowledge base failed validation")
	ErrNotFound        = errors.New("not found")
	ErrProductNotFound = errors.New("product not found for barcode")
)
