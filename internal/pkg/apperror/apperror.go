package apperror

import "errors"

// Application-level sentinels. The fiber error handler in serverutils maps
// these (and the agent core's sentinels) to HTTP statuses.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrBadRequest    = errors.New("bad request")
	ErrDuplicateName = errors.New("document name already exists")
)
