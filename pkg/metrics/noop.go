package metrics

import "time"

// Noop discards every measurement.
type Noop struct{}

var _ Recorder = Noop{}

// NewNoop returns a recorder that does nothing.
func NewNoop() Recorder { return Noop{} }

func (Noop) RecordRedirect(string, bool)                     {}
func (Noop) RecordCallback(string, string, time.Duration)    {}
func (Noop) RecordUserInfoFetch(string, bool, time.Duration) {}
