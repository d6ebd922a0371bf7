package config

import "errors"

var ErrConfigIsNil = errors.New("config is nil")
var ErrUnknownBackend = errors.New("unknown audit backend")
var ErrMissingAuditDir = errors.New("missing audit dir")
var ErrUnknownIDScheme = errors.New("unknown audit id scheme")
var ErrUnknownStrategy = errors.New("unknown strategy")
var ErrUnknownLogLevel = errors.New("unknown log level")
var ErrUnknownLogFormat = errors.New("unknown log format")
var ErrInvalidConcurrency = errors.New("concurrency must not be negative")
