package validator

import "errors"

var (
	ErrEmptyURL       = errors.New("URL cannot be empty")
	ErrInvalidURL     = errors.New("invalid URL format")
	ErrInvalidScheme  = errors.New("URL must use http or https scheme")
	ErrInvalidHost    = errors.New("URL must have a valid host")
	ErrInvalidDecimal = errors.New("value must be a decimal number")
	ErrInvalidIP      = errors.New("invalid IP address")
)
