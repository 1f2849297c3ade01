package models

import "errors"

// Custom errors
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("record not found")
	ErrNoFeed          = errors.New("no match feed configured")
	ErrInvalidOdds     = errors.New("invalid odds")
	ErrNoRepository    = errors.New("plan persistence is not configured")
)
