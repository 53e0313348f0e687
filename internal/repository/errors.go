package repository

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidID          = errors.New("invalid id")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidStationName = errors.New("invalid police station name format")
)
