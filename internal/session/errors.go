package session

import "errors"

// errCancelled stops a directory walk when the user aborts; it never
// escapes the worker.
var errCancelled = errors.New("session cancelled")
