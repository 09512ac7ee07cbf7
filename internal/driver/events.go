package driver

import "time"

// Stage of a file inside a directory check.
type Stage string

const (
	StageLoad  Stage = "load"
	StageCheck Stage = "check"
	StageCache Stage = "cache"
)

// Status reports where a file is within its stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	// StatusError: the file has error diagnostics or could not be read.
	StatusError Status = "error"
)

// Event is sent for every state change of a file during CheckDir.
// File is empty for events about the whole run.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events to a channel; the ui package reads from it.
type ChannelSink chan<- Event

func (c ChannelSink) OnEvent(ev Event) { c <- ev }

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
