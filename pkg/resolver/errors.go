package resolver

import "errors"

var ErrStrategyNotFound = errors.New("strategy not found")
