package puzzle

import (
	"time"
)

/*

Session options

*/

// An Option adjusts session construction.  The zero configuration
// (nondeterministic seed, wall clock, no reporter) is what normal
// play uses; tests and replay tooling override pieces of it.
type Option func(*sessionConfig)

// sessionConfig collects the option results before generation runs.
type sessionConfig struct {
	seed     int64
	seeded   bool
	start    time.Time
	started  bool
	now      func() time.Time
	reporter ScoreReporter
}

// WithSeed pins the session's random stream to an explicit seed.  A
// given (seed, difficulty) pair always reproduces the identical
// solution grid and cage partition.
func WithSeed(seed int64) Option {
	return func(cfg *sessionConfig) {
		cfg.seed = seed
		cfg.seeded = true
	}
}

// WithStart pins the session's start time instead of reading the
// clock at creation.  Storage layers use it when rebuilding a saved
// session, so elapsed play time spans the reload instead of
// restarting from it.
func WithStart(t time.Time) Option {
	return func(cfg *sessionConfig) {
		cfg.start = t
		cfg.started = true
	}
}

// WithClock substitutes the session's time source.  The session
// reads the clock when it is created and again when it completes;
// the difference is what the scorer sees.
func WithClock(now func() time.Time) Option {
	return func(cfg *sessionConfig) {
		cfg.now = now
	}
}

// WithReporter registers the collaborator that receives the
// session's single ScoreEvent on completion.  Without a reporter
// the event is simply dropped.
func WithReporter(r ScoreReporter) Option {
	return func(cfg *sessionConfig) {
		cfg.reporter = r
	}
}

// newSessionConfig applies the options over the defaults.
func newSessionConfig(opts []Option) sessionConfig {
	cfg := sessionConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.seeded {
		cfg.seed = cfg.now().UnixNano()
	}
	return cfg
}
