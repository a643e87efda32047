package domain

import "time"

// OffsetUnit is the closed set of units a reminder offset can use.
type OffsetUnit string

const (
	UnitMinutes OffsetUnit = "minutes"
	UnitHours   OffsetUnit = "hours"
	UnitDays    OffsetUnit = "days"
)

// ParseOffsetUnit maps a UI token to an OffsetUnit. Both the English
// tokens and the Persian ones the original interface used are accepted.
// Unrecognized tokens come back as-is with ok=false so the caller can
// apply the documented 15-minute fallback.
func ParseOffsetUnit(s string) (OffsetUnit, bool) {
	switch s {
	case "minutes", "minute", "min", "دقیقه":
		return UnitMinutes, true
	case "hours", "hour", "ساعت":
		return UnitHours, true
	case "days", "day", "روز":
		return UnitDays, true
	default:
		return OffsetUnit(s), false
	}
}

// Offset specifies how far before its anchor a reminder fires.
type Offset struct {
	Value int
	Unit  OffsetUnit
}

// DefaultOffset is the fallback used for unknown units and for the
// lossy task-restore path.
var DefaultOffset = Offset{Value: 15, Unit: UnitMinutes}

// Validate rejects non-positive offset values. Unit validity is not a
// validation failure (see Duration).
func (o Offset) Validate() error {
	if o.Value < 1 {
		return invalid("offset value", "must be at least 1")
	}
	return nil
}

// Duration converts the offset to a time.Duration. For an unknown unit
// it returns the 15-minute default and ok=false; the scheduler surfaces
// that as ErrUnknownOffsetUnit instead of failing the write.
func (o Offset) Duration() (time.Duration, bool) {
	switch o.Unit {
	case UnitMinutes:
		return time.Duration(o.Value) * time.Minute, true
	case UnitHours:
		return time.Duration(o.Value) * time.Hour, true
	case UnitDays:
		return time.Duration(o.Value) * 24 * time.Hour, true
	default:
		return 15 * time.Minute, false
	}
}
