package repository

import "errors"

// ErrNotFound is returned by repositories when the requested row does not
// exist. Callers that need to treat missing rows differently from query
// failures match on it with errors.Is.
var ErrNotFound = errors.New("not found")
