package domain

import "errors"

// ErrFeedNotFound is returned by feed stores when a feed was never stored.
var ErrFeedNotFound = errors.New("feed not found")
