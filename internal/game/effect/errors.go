package effect

import "errors"

// Authoring-time validation errors. Apply-time resolution never returns
// these; it skips malformed effects instead.
var (
	errUnknownType      = errors.New("effect: unknown effect type")
	errUnknownTarget    = errors.New("effect: unknown target kind")
	errUnknownStat      = errors.New("effect: unknown stat")
	errNonNumericValue  = errors.New("effect: STAT_CHANGE requires a numeric value")
	errNonStringValue   = errors.New("effect: STATUS_EFFECT requires a string value")
	errChanceOutOfRange = errors.New("effect: chance must be within 0-100")
)
