// Package ledtest provides a recording led.Actuator for tests.
package ledtest

import (
	"errors"

	"github.com/afroash/dht-alert/internal/led"
)

// Level is one write made to a Recorder.
type Level string

const (
	High Level = "high"
	Low  Level = "low"
)

// ErrWrite is returned by a Recorder with Fail set.
var ErrWrite = errors.New("write failed")

// Recorder remembers every level written to it.
type Recorder struct {
	Writes []Level
	Closed bool
	// Fail makes every write return ErrWrite without recording it.
	Fail bool
}

var _ led.Actuator = (*Recorder)(nil)

func (r *Recorder) SetHigh() error {
	return r.write(High)
}

func (r *Recorder) SetLow() error {
	return r.write(Low)
}

func (r *Recorder) write(l Level) error {
	if r.Fail {
		return ErrWrite
	}
	r.Writes = append(r.Writes, l)
	return nil
}

func (r *Recorder) Close() error {
	r.Closed = true
	return nil
}

// Last returns the most recent level written, or "" if none.
func (r *Recorder) Last() Level {
	if len(r.Writes) == 0 {
		return ""
	}
	return r.Writes[len(r.Writes)-1]
}

// Reset forgets recorded writes.
func (r *Recorder) Reset() {
	r.Writes = nil
}
