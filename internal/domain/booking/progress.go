package booking

import "time"

// Progress is the operational state of a service execution.
// It is one of Idle, Running or Finished.
type Progress interface {
	isProgress()
}

type Idle struct{}

type Running struct {
	Start time.Time
}

type Finished struct {
	Start time.Time
	End   time.Time
}

func (Idle) isProgress()     {}
func (Running) isProgress()  {}
func (Finished) isProgress() {}

// ProgressOf builds the progress value from the stored actual timestamps.
func ProgressOf(actualStart, actualEnd *time.Time) Progress {
	switch {
	case actualStart == nil:
		return Idle{}
	case actualEnd == nil:
		return Running{Start: *actualStart}
	default:
		return Finished{Start: *actualStart, End: *actualEnd}
	}
}

// Channel is the origin of an appointment.
type Channel string

const (
	ChannelStandard   Channel = "standard"
	ChannelPublic     Channel = "public"
	ChannelAutomation Channel = "automation"
	ChannelWalkIn     Channel = "walk_in"
)
