package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the caller has no valid session
	ErrUnauthorized = errors.New("Unauthorized")
	// ErrInvalidInput means the request was malformed
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidProductID means the product id was missing, non-numeric or not positive
	ErrInvalidProductID = fmt.Errorf("%w: Invalid productId", ErrInvalidInput)
	// ErrStorage wraps every failure of the backing store
	ErrStorage = errors.New("storage failure")
)
