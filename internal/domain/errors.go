package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrEditConflict     = errors.New("edit conflict")
	ErrNotHolder        = errors.New("seat hold does not exist, has expired, or belongs to another user")
	ErrNotOwner         = errors.New("booking belongs to another user")
	ErrAlreadyFinalized = errors.New("booking is already finalized")
)

// InvalidSeatError reports seat ids that are not part of the schedule's layout.
type InvalidSeatError struct {
	ScheduleID int64
	SeatIDs    []string
}

func (e *InvalidSeatError) Error() string {
	return fmt.Sprintf("seats not in layout of schedule %d: %s", e.ScheduleID, strings.Join(e.SeatIDs, ", "))
}

// SeatUnavailableError reports seats that are already held or booked by someone else.
type SeatUnavailableError struct {
	ScheduleID int64
	SeatIDs    []string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seats unavailable for schedule %d: %s", e.ScheduleID, strings.Join(e.SeatIDs, ", "))
}

// HoldNotOwnedError reports seats with no hold, or a hold owned by a different
// user, at promotion time.
type HoldNotOwnedError struct {
	ScheduleID int64
	SeatIDs    []string
}

func (e *HoldNotOwnedError) Error() string {
	return fmt.Sprintf("no hold owned by caller for seats of schedule %d: %s", e.ScheduleID, strings.Join(e.SeatIDs, ", "))
}

// HoldExpiredError reports seats whose hold expired before promotion completed.
type HoldExpiredError struct {
	ScheduleID int64
	SeatIDs    []string
}

func (e *HoldExpiredError) Error() string {
	return fmt.Sprintf("holds expired for seats of schedule %d: %s", e.ScheduleID, strings.Join(e.SeatIDs, ", "))
}
