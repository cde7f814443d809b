package pipeline

// Event is one item on the pipeline's ordered event stream. The stream
// carries Progress and LogLine events and is terminated by exactly one
// Finished event, after which the channel is closed.
type Event interface {
	isEvent()
}

// Progress reports phase completion as a percentage.
type Progress struct {
	// Label names the phase being reported, e.g. "Downloading tiles".
	Label string

	// Percent is in [0, 100].
	Percent float64
}

// LogLine is a human-readable status line.
type LogLine struct {
	Text    string
	IsError bool
}

// Finished terminates the event stream.
type Finished struct {
	// Err is the fatal error of a single-job run, nil on success. Batch
	// runs report per-job errors as LogLines and leave Err nil.
	Err error
}

func (Progress) isEvent() {}
func (LogLine) isEvent()  {}
func (Finished) isEvent() {}
