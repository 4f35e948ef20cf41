package timekeeper

import "fmt"

// Snapshot is a point-in-time copy of the timer state.
type Snapshot struct {
	Phase            Phase
	Remaining        int
	Total            int
	Running          bool
	Started          bool
	AutoStartPending bool
	Completed        int
}

// Clock renders the remaining time as MM:SS.
func (snapshot Snapshot) Clock() string {
	return FormatClock(snapshot.Remaining)
}

// Label names the current phase.
func (snapshot Snapshot) Label() string {
	if snapshot.Phase == PhaseBreak {
		return "Break time"
	}
	return "Focus time"
}

// Progress is the remaining fraction of the phase, 1 at the start and 0 at the end.
func (snapshot Snapshot) Progress() float64 {
	if snapshot.Total <= 0 {
		return 0
	}
	return float64(snapshot.Remaining) / float64(snapshot.Total)
}

// FormatClock formats seconds as zero padded MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
