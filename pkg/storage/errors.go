package storage

import "errors"

var ErrEmptyRelation = errors.New("relation must not be empty")
var ErrEmptyKey = errors.New("key must not be empty")
var ErrClosed = errors.New("storage is closed")
var ErrInvalidDocument = errors.New("document is not valid JSON")
