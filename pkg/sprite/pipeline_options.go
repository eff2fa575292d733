package sprite

import "time"

type Option func(p *Pipeline)

// WithTargets replaces the default thumbnail/detail output pair.
func WithTargets(targets ...Target) Option {
	return func(p *Pipeline) {
		p.targets = targets
	}
}

// WithDelay waits d after every identifier that performed an acquisition
// call, respecting the provider's rate limits. Skipped identifiers are free.
func WithDelay(d time.Duration) Option {
	return func(p *Pipeline) {
		p.delay = d
	}
}

// WithForce regenerates outputs even when they already exist.
func WithForce() Option {
	return func(p *Pipeline) {
		p.force = true
	}
}

// WithIntegrityCheck decodes existing outputs before trusting them for the
// skip decision; wrong-sized or unreadable files are regenerated.
func WithIntegrityCheck() Option {
	return func(p *Pipeline) {
		p.verify = true
	}
}

// WithObserver calls fn after each identifier completes.
func WithObserver(fn func(Result)) Option {
	return func(p *Pipeline) {
		p.observer = fn
	}
}
