package service

import "errors"

var (
	ErrValidation               = errors.New("validation failed")
	ErrInvalidRange             = errors.New("end time must be after start time")
	ErrInvalidDuration          = errors.New("slot duration must be at least 1 minute")
	ErrNoSlotsGenerated         = errors.New("no slot fits in the requested range")
	ErrDepartmentNotFound       = errors.New("department not found")
	ErrSlotNotFound             = errors.New("time slot not found")
	ErrSlotInPast               = errors.New("time slot already started")
	ErrSlotNoLongerAvailable    = errors.New("time slot is no longer available")
	ErrSlotHasHistory           = errors.New("time slot has appointment history")
	ErrSlotStillBooked          = errors.New("time slot still has an active appointment")
	ErrAppointmentNotFound      = errors.New("appointment not found")
	ErrInvalidTransition        = errors.New("transition not allowed")
	ErrCancellationWindowClosed = errors.New("cancellation requires at least 2 hours notice")
	ErrAppointmentStarted       = errors.New("appointment already started")
	ErrAppointmentNotStarted    = errors.New("appointment has not started yet")
)

// ValidationError rejects a single input field. errors.Is(err, ErrValidation) holds for it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Kind groups errors by how a caller should react to them
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindIntegrity
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindIntegrity:
		return "integrity"
	default:
		return "internal"
	}
}

// KindOf classifies err. Anything unrecognised is KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidRange),
		errors.Is(err, ErrInvalidDuration),
		errors.Is(err, ErrNoSlotsGenerated):
		return KindValidation
	case errors.Is(err, ErrDepartmentNotFound),
		errors.Is(err, ErrSlotNotFound),
		errors.Is(err, ErrAppointmentNotFound):
		return KindNotFound
	case errors.Is(err, ErrSlotInPast),
		errors.Is(err, ErrSlotNoLongerAvailable),
		errors.Is(err, ErrSlotStillBooked),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrCancellationWindowClosed),
		errors.Is(err, ErrAppointmentStarted),
		errors.Is(err, ErrAppointmentNotStarted):
		return KindConflict
	case errors.Is(err, ErrSlotHasHistory):
		return KindIntegrity
	default:
		return KindInternal
	}
}
