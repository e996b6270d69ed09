package presence

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/whenpress/whenpress/internal/device"
)

// absoluteFormat is the calendar form shown next to relative phrases.
const absoluteFormat = "Jan 2, 2006 3:04:05 PM MST"

// View is the display-ready presence data for one device page.
type View struct {
	Device     string
	Presses    int
	Online     bool
	LastPress  string // relative phrase, "never" if no presses
	LastPressA string // absolute phrase in the viewer's zone, "" if no presses
	Ping       string // relative phrase, "never" if no ping
	AllPresses []PressView
}

// PressView is one press rendered for display.
type PressView struct {
	Relative string
	Absolute string
}

// Zone resolves an IANA zone name supplied by the viewer, falling back to
// UTC when the name is empty or unknown.
func Zone(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Format renders a snapshot and its derived status for display in the given
// zone. Presses are listed most-recent-first.
func Format(snap *device.Snapshot, status Status, now time.Time, loc *time.Location) View {
	view := View{
		Device:    snap.Name,
		Presses:   status.PressCount,
		Online:    status.Online,
		LastPress: "never",
		Ping:      "never",
	}

	if status.HasLastPress {
		view.LastPress = relative(status.LastPress, now)
		view.LastPressA = status.LastPress.In(loc).Format(absoluteFormat)
	}
	if snap.HasPing {
		view.Ping = relative(time.Unix(snap.Ping, 0), now)
	}

	view.AllPresses = make([]PressView, 0, len(snap.Events))
	for i := len(snap.Events) - 1; i >= 0; i-- {
		t := time.Unix(snap.Events[i].PressTimestamp, 0)
		view.AllPresses = append(view.AllPresses, PressView{
			Relative: relative(t, now),
			Absolute: t.In(loc).Format(absoluteFormat),
		})
	}
	return view
}

// relative renders a timestamp as a phrase like "3 minutes ago" against an
// explicit clock, keeping rendering deterministic for a given now.
func relative(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}
