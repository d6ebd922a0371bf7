package crdt

import "errors"

var ErrNoTimestamp = errors.New("no timestamp in value")
var ErrNotMultiValue = errors.New("value is not a multi-value envelope")
