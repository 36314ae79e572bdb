package domain

import "errors"

var (
	// ErrFoodNotFound is returned when a food cannot be found in the FDC database
	ErrFoodNotFound = errors.New("food not found in FDC database")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrUSDAAPIFailure is returned when a USDA API request fails
	ErrUSDAAPIFailure = errors.New("USDA API request failed")

	// ErrDayNotFound is returned when no history exists for a date
	ErrDayNotFound = errors.New("no history for date")
)
