// Package seatlock serializes conflicting operations on the same
// (schedule, seat) pairs. Holds themselves express reservation through data
// with a deadline; a lock here only spans a single check-and-write critical
// section, never a user interaction.
package seatlock

import (
	"context"
	"fmt"
)

// Locker acquires exclusive short-term locks on every requested seat of a
// schedule, all-or-nothing. The returned function releases all of them.
type Locker interface {
	Lock(ctx context.Context, scheduleID int64, seatIDs []string) (func(), error)
}

func seatKey(scheduleID int64, seatID string) string {
	return fmt.Sprintf("seat_lock:%d:%s", scheduleID, seatID)
}
