package usecase

import "errors"

var (
	ErrEmptyTable     = errors.New("table has no columns")
	ErrSeriesNotFound = errors.New("series not found")
	ErrInvalidParams  = errors.New("invalid report parameters")
	ErrUnknownBackend = errors.New("unknown backend")
)
