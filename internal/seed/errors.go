package seed

import "errors"

// Repository errors.
var (
	ErrEmailTaken    = errors.New("user with this email already exists")
	ErrUniqueIDTaken = errors.New("project with this unique id already exists")
)
