package common

import "errors"

var (
	// ErrNotLoggedIn is returned by operations that need a stored session
	// with an access token when none is present.
	ErrNotLoggedIn = errors.New("not logged in")
)
