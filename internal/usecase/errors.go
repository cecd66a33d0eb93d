package usecase

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrMalformedEntry       = errors.New("malformed calendar entry")
	ErrUnknownTournament    = errors.New("unknown tournament")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrUpstreamUnavailable  = errors.New("upstream unavailable")
	ErrUpstreamShapeChanged = errors.New("upstream shape changed")
)
