package auction

import "time"

const (
	msPerDay    int64 = 86_400_000
	msPerHour   int64 = 3_600_000
	msPerMinute int64 = 60_000
	msPerSecond int64 = 1000
)

// DefaultEndingThreshold is how close to the end a countdown counts as ending
const DefaultEndingThreshold = time.Hour

// Breakdown is the remaining time split into whole units
type Breakdown struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

// Remaining returns max(0, end-now) in milliseconds
func Remaining(end, now time.Time) int64 {
	ms := end.Sub(now).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}

// NewBreakdown decomposes ms by integer division with remainder chaining
func NewBreakdown(ms int64) Breakdown {
	if ms < 0 {
		ms = 0
	}
	return Breakdown{
		Days:    ms / msPerDay,
		Hours:   ms % msPerDay / msPerHour,
		Minutes: ms % msPerHour / msPerMinute,
		Seconds: ms % msPerMinute / msPerSecond,
	}
}

// BreakdownUntil is NewBreakdown(Remaining(end, now))
func BreakdownUntil(end, now time.Time) Breakdown {
	return NewBreakdown(Remaining(end, now))
}

// Milliseconds converts the breakdown back; seconds are truncated, so the
// result is at most 999 ms below the value it was built from.
func (b Breakdown) Milliseconds() int64 {
	return b.Days*msPerDay + b.Hours*msPerHour + b.Minutes*msPerMinute + b.Seconds*msPerSecond
}

// Finished returns true once all four fields are zero
func (b Breakdown) Finished() bool {
	return b.Days == 0 && b.Hours == 0 && b.Minutes == 0 && b.Seconds == 0
}

// Phase is the display state derived from a breakdown
type Phase string

const (
	PhaseRunning  Phase = "running"
	PhaseEnding   Phase = "ending"
	PhaseFinished Phase = "finished"
)

// PhaseOf derives the phase from the breakdown fields alone
func PhaseOf(b Breakdown, endingThreshold time.Duration) Phase {
	if b.Finished() {
		return PhaseFinished
	}
	if time.Duration(b.Milliseconds())*time.Millisecond < endingThreshold {
		return PhaseEnding
	}
	return PhaseRunning
}
