package resolver

import (
	"log/slog"
	"time"
)

type Option func(*options)

type options struct {
	sink   AuditSink
	ids    IDGenerator
	logger *slog.Logger
	now    func() time.Time
}

func newOptions(opts ...Option) options {
	o := options{
		ids:    UUIDGenerator,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithAuditSink enables the audit trail. Without a sink nothing is recorded.
func WithAuditSink(sink AuditSink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

func WithIDGenerator(ids IDGenerator) Option {
	return func(o *options) {
		if ids != nil {
			o.ids = ids
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
