package server

import "errors"

// errResponseWritten signals that a helper already committed the response.
// Handlers return nil on it so the ErrorHandler does not overwrite the body.
var errResponseWritten = errors.New("response already written")
