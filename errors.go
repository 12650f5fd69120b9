package gesture

import (
	"errors"
	"fmt"
)

// Protocol violations. They are recovered by dropping the offending sample and
// are only visible through an error handler.
var (
	// ErrNoPriorDown is reported for a Motion or Up whose device is not pressed.
	ErrNoPriorDown = errors.New("no prior down for device")
	// ErrDuplicateDown is reported for a Down whose device is already pressed.
	ErrDuplicateDown = errors.New("device already down")
)

// ProtocolError describes a sample that violated the point-state protocol.
type ProtocolError struct {
	DeviceID int32
	State    PointState
	Err      error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("gesture: device %d %s: %v", e.DeviceID, e.State, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
