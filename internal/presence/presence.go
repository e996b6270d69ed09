// Package presence derives online/offline status and display-ready press
// history from a device snapshot. Everything here is pure: the same snapshot,
// clock, and zone always produce the same output, and nothing is cached.
package presence

import (
	"time"

	"github.com/whenpress/whenpress/internal/device"
)

// DefaultActivityThreshold is how recently a device must have been heard
// from, via press or ping, to count as online.
const DefaultActivityThreshold = 600 * time.Second

// Status is the derived presence state for one device. It is recomputed on
// every read and never persisted.
type Status struct {
	PressCount int

	// LastPress is the maximum press timestamp in the ledger.
	LastPress    time.Time
	HasLastPress bool

	// LastActive is the later of the last press and the last ping.
	LastActive    time.Time
	HasLastActive bool

	Online bool
}

// Derive computes presence from a snapshot at the given instant. A device
// with no presses and no ping is offline with no activity. The online
// boundary is inclusive: lastActive exactly threshold ago is still online.
func Derive(snap *device.Snapshot, now time.Time, threshold time.Duration) Status {
	status := Status{PressCount: len(snap.Events)}

	for _, event := range snap.Events {
		t := time.Unix(event.PressTimestamp, 0)
		if !status.HasLastPress || t.After(status.LastPress) {
			status.LastPress = t
			status.HasLastPress = true
		}
	}

	if status.HasLastPress {
		status.LastActive = status.LastPress
		status.HasLastActive = true
	}
	if snap.HasPing {
		t := time.Unix(snap.Ping, 0)
		if !status.HasLastActive || t.After(status.LastActive) {
			status.LastActive = t
			status.HasLastActive = true
		}
	}

	if status.HasLastActive {
		status.Online = now.Sub(status.LastActive) <= threshold
	}
	return status
}
