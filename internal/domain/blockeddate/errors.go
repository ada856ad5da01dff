package blockeddate

import "errors"

var (
	// ErrAlreadyBlocked is returned when blocking a date that is already
	// blocked for the resource. Blocking is deliberately not idempotent so
	// admins notice duplicated maintenance entries.
	ErrAlreadyBlocked = errors.New("date is already blocked for this resource")
)
