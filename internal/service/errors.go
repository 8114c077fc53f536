package service

import "errors"

var (
	ErrProjectionNotFound  = errors.New("projection not found")
	ErrInvalidProjectionID = errors.New("invalid projection id")
	ErrMissingCSVColumn    = errors.New("missing required csv column")
	ErrEmptyUpload         = errors.New("upload has no rows")
	ErrInvalidOfferDay     = errors.New("unknown day in offer row")
	ErrIdempotencyConflict = errors.New("idempotency key already used with different request data")
)
