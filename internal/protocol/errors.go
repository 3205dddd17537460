package protocol

const (
	// Observer stream / transport.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrBusy            = "E_BUSY"

	// Cohort collection layer.
	ErrBadIndex               = "E_BAD_INDEX"
	ErrUnsupportedDisturbance = "E_UNSUPPORTED_DISTURBANCE"
	ErrInvariantViolation     = "E_INVARIANT_VIOLATION"
	ErrInternal               = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest:        {},
	ErrBusy:                   {},
	ErrBadIndex:               {},
	ErrUnsupportedDisturbance: {},
	ErrInvariantViolation:     {},
	ErrInternal:               {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
