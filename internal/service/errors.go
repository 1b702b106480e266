package service

import "errors"

// ErrNotAuthenticated is returned by operations that require a current user
// when the session is anonymous. Lookups that miss are not errors; they
// report absence through their boolean return.
var ErrNotAuthenticated = errors.New("user not authenticated")
