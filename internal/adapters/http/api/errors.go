package api

import "errors"

// errBadRequest marks client errors raised by the handlers themselves.
var errBadRequest = errors.New("bad request")
