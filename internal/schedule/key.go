package schedule

import (
	"strings"

	errors "github.com/frahmantamala/roster-management/internal"
	"github.com/frahmantamala/roster-management/internal/core/roster"
)

const keyDelimiter = "-"

// SlotKey addresses one shift slot inside a week: "<department>-<day>-<label>".
// The label may itself contain the delimiter ("10-14 i 18-22").
type SlotKey struct {
	Department roster.Department `json:"department"`
	Day        string            `json:"day"`
	Label      string            `json:"label"`
}

func BuildKey(department roster.Department, day, label string) string {
	return string(department) + keyDelimiter + day + keyDelimiter + label
}

func (k SlotKey) String() string {
	return BuildKey(k.Department, k.Day, k.Label)
}

// ParseKey splits a slot key. ok is false when the key has fewer than three
// parts or a blank label; callers skip such keys.
func ParseKey(key string) (SlotKey, bool) {
	parts := strings.Split(key, keyDelimiter)
	if len(parts) < 3 {
		return SlotKey{}, false
	}
	label := strings.Join(parts[2:], keyDelimiter)
	if strings.TrimSpace(label) == "" {
		return SlotKey{}, false
	}
	return SlotKey{
		Department: roster.Department(parts[0]),
		Day:        parts[1],
		Label:      label,
	}, true
}

// HoursLabel is the text the shift-hours parser reads for this slot: the
// position's time for named positions, the label itself otherwise.
func (k SlotKey) HoursLabel() string {
	if p, ok := roster.PositionByID(k.Label); ok {
		return p.Time
	}
	return k.Label
}

// Slot is a validated slot key tagged with the kind its department uses.
type Slot struct {
	SlotKey
	Kind     roster.SlotKind  `json:"kind"`
	Position *roster.Position `json:"position,omitempty"`
}

// ResolveSlot validates the parts of a slot key against the closed
// vocabularies and the department's configured slot kind.
func ResolveSlot(layout roster.Layout, department roster.Department, day, label string) (Slot, error) {
	label = strings.TrimSpace(label)
	switch {
	case !department.Valid():
		return Slot{}, errors.NewValidationFieldError("department", "unknown department "+string(department), errors.ErrCodeInvalidDepartment)
	case !roster.IsDay(day):
		return Slot{}, errors.NewValidationFieldError("day", "unknown day "+day, errors.ErrCodeInvalidDay)
	case label == "":
		return Slot{}, errors.NewValidationFieldError("shift", "shift is required", errors.ErrCodeInvalidShift)
	}

	slot := Slot{
		SlotKey: SlotKey{Department: department, Day: day, Label: label},
		Kind:    layout.KindOf(department),
	}
	position, isPosition := roster.PositionByID(label)
	switch slot.Kind {
	case roster.SlotKindNamedPosition:
		if !isPosition {
			return Slot{}, errors.NewValidationFieldError("shift",
				string(department)+" schedules by position, unknown position "+label, errors.ErrCodeSlotKindMismatch)
		}
		slot.Position = &position
	default:
		if isPosition {
			return Slot{}, errors.NewValidationFieldError("shift",
				string(department)+" schedules by time range, got position "+label, errors.ErrCodeSlotKindMismatch)
		}
	}
	return slot, nil
}

// ResolveKey parses and validates a raw slot key.
func ResolveKey(layout roster.Layout, key string) (Slot, error) {
	k, ok := ParseKey(key)
	if !ok {
		return Slot{}, errors.NewValidationFieldError("key", "malformed slot key "+key, errors.ErrCodeInvalidSlotKey)
	}
	return ResolveSlot(layout, k.Department, k.Day, k.Label)
}

// Kind reports how the key's label is written: a position id or a time range.
func (k SlotKey) Kind() roster.SlotKind {
	if _, ok := roster.PositionByID(k.Label); ok {
		return roster.SlotKindNamedPosition
	}
	return roster.SlotKindTimeRange
}
