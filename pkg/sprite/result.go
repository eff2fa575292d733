package sprite

import "errors"

var (
	// ErrDecode means the acquired bytes are not a decodable image.
	ErrDecode = errors.New("sprite: decode source artwork")
	// ErrWrite means an output could not be persisted.
	ErrWrite = errors.New("sprite: write output")
)

type Status int

const (
	StatusSucceeded Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result reports the outcome of processing one identifier.
type Result struct {
	ID     int
	Status Status
	Paths  []string
	Err    error

	// Acquired is set when a fetch call was attempted, successful or not.
	// The batch loop rate-limits only after acquisitions.
	Acquired bool
}

type Failure struct {
	ID  int
	Err error
}

// Summary aggregates a batch run. A single identifier's failure never aborts
// the batch; it lands here instead.
type Summary struct {
	Succeeded int
	Skipped   int
	Failed    int
	Failures  []Failure
}

func (s *Summary) add(r Result) {
	switch r.Status {
	case StatusSucceeded:
		s.Succeeded++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
		s.Failures = append(s.Failures, Failure{ID: r.ID, Err: r.Err})
	}
}
