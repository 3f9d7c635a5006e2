package service

import (
	"errors"

	"station_monitor/internal/timer"
)

// Domain errors. Handlers map them onto HTTP status codes.
var (
	// ErrNotFound is a valid outcome: no row exists for the query.
	ErrNotFound = errors.New("not found")

	// ErrValidation wraps every rejected input; no partial write happens.
	ErrValidation = errors.New("validation failed")

	// ErrStaleWrite rejects a threshold change while the station timer runs.
	ErrStaleWrite = errors.New("station timer is running; thresholds can only change while idle")

	ErrAlreadyRunning = timer.ErrAlreadyRunning

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)
