package engine

import "log/slog"

// Spawner starts run as worker id. A non-nil error means run was not
// started; Sort then stops the workers already running and fails with a
// thread creation error.
type Spawner func(id int, run func()) error

// GoSpawner starts every worker on its own goroutine.
func GoSpawner(id int, run func()) error {
	go run()
	return nil
}

// Option configures a Sort call.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	recorder Recorder
	runIDs   RunIDGenerator
	spawner  Spawner
}

func defaultOptions() options {
	return options{
		logger:  slog.Default(),
		runIDs:  UUIDv7Generator{},
		spawner: GoSpawner,
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRecorder receives a trace event for every step of the run.
// Default: no tracing.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithRunIDs sets the run ID generator. Default: UUIDv7Generator.
// Use NewFixedGenerator in tests for deterministic IDs.
func WithRunIDs(g RunIDGenerator) Option {
	return func(o *options) {
		if g != nil {
			o.runIDs = g
		}
	}
}

// WithSpawner overrides how workers are started. Default: GoSpawner.
func WithSpawner(s Spawner) Option {
	return func(o *options) {
		if s != nil {
			o.spawner = s
		}
	}
}
