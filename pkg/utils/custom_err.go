package utils

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDatabaseError      = errors.New("database error")
	ErrModelUnavailable   = errors.New("language model not configured")
	ErrModelQuotaExceeded = errors.New("language model quota exceeded")
	ErrEmptyModelReply    = errors.New("language model returned no text")
	ErrInvalidModelReply  = errors.New("language model reply has no itinerary")
	ErrDayNotFound        = errors.New("day not found in itinerary")
	ErrActivityNotFound   = errors.New("activity not found in day")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrTripMemoryNotFound = errors.New("trip memory not found")
	ErrInvalidProfile     = errors.New("invalid profile payload")
	ErrMediaBackend       = errors.New("media backend error")
)
