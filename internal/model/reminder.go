package model

import "time"

type ReminderKind string

const (
	Reminder30Min ReminderKind = "30min"
	Reminder10Min ReminderKind = "10min"
)

// ReminderKinds lists the thresholds in dispatch order.
var ReminderKinds = []ReminderKind{Reminder30Min, Reminder10Min}

// Window is how long before the start the reminder becomes due.
func (k ReminderKind) Window() time.Duration {
	switch k {
	case Reminder30Min:
		return 30 * time.Minute
	case Reminder10Min:
		return 10 * time.Minute
	}
	return 0
}

// Column is the appointments flag that records the reminder was sent.
func (k ReminderKind) Column() string {
	switch k {
	case Reminder30Min:
		return "notified_30min"
	case Reminder10Min:
		return "notified_10min"
	}
	return ""
}

// Due reports whether a start time falls inside the reminder window at now.
// The window is (now, now+Window]; starts already reached are never due.
func (k ReminderKind) Due(start, now time.Time) bool {
	delta := start.Sub(now)
	return delta > 0 && delta <= k.Window()
}
