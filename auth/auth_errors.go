package auth

import "errors"

var (
	SessionsRequiredErr = errors.New("session holder is required")
	APIRequiredErr      = errors.New("api client is required")
)
