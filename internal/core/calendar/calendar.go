// Package calendar converts between absolute ISO week identifiers, which is
// how schedules are stored, and week offsets relative to the current week,
// which is how they are browsed.
package calendar

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// WeekID identifies a calendar week as "YYYY-Www" (ISO 8601).
type WeekID string

var monthAbbrev = []string{"jan", "feb", "mar", "apr", "maj", "jun", "jul", "avg", "sep", "okt", "nov", "dec"}

var MonthNames = []string{
	"Januar", "Februar", "Mart", "April", "Maj", "Jun",
	"Jul", "Avgust", "Septembar", "Oktobar", "Novembar", "Decembar",
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MondayOf returns midnight of the Monday that starts t's week. Sunday
// belongs to the week that started six days earlier.
func MondayOf(t time.Time) time.Time {
	t = startOfDay(t)
	wd := int(t.Weekday())
	shift := 1 - wd
	if wd == 0 {
		shift = -6
	}
	return t.AddDate(0, 0, shift)
}

func WeekOf(t time.Time) WeekID {
	year, week := MondayOf(t).ISOWeek()
	return WeekID(fmt.Sprintf("%04d-W%02d", year, week))
}

func WeekForOffset(now time.Time, offset int) WeekID {
	return WeekOf(MondayOf(now).AddDate(0, 0, 7*offset))
}

func ParseWeekID(s string) (WeekID, error) {
	id := WeekID(strings.TrimSpace(s))
	if _, _, err := id.split(); err != nil {
		return "", err
	}
	return id, nil
}

func (id WeekID) split() (int, int, error) {
	yearPart, weekPart, ok := strings.Cut(string(id), "-W")
	if !ok {
		return 0, 0, fmt.Errorf("malformed week id %q", id)
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil || year < 1 {
		return 0, 0, fmt.Errorf("malformed week id %q", id)
	}
	week, err := strconv.Atoi(weekPart)
	if err != nil || week < 1 || week > 53 {
		return 0, 0, fmt.Errorf("malformed week id %q", id)
	}
	return year, week, nil
}

// Monday returns the first day of the week in loc.
func (id WeekID) Monday(loc *time.Location) (time.Time, error) {
	year, week, err := id.split()
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	// January 4th always falls in ISO week 1.
	first := MondayOf(time.Date(year, time.January, 4, 0, 0, 0, 0, loc))
	monday := first.AddDate(0, 0, 7*(week-1))
	if y, w := monday.ISOWeek(); y != year || w != week {
		return time.Time{}, fmt.Errorf("week id %q does not exist", id)
	}
	return monday, nil
}

// Date returns the absolute date of the dayIndex-th day (0 = Monday).
func (id WeekID) Date(dayIndex int, loc *time.Location) (time.Time, error) {
	monday, err := id.Monday(loc)
	if err != nil {
		return time.Time{}, err
	}
	return monday.AddDate(0, 0, dayIndex), nil
}

// OffsetOf returns how many weeks id lies after the week containing now.
func OffsetOf(now time.Time, id WeekID) (int, error) {
	monday, err := id.Monday(now.Location())
	if err != nil {
		return 0, err
	}
	days := monday.Sub(MondayOf(now)).Hours() / 24
	return int(math.Round(days / 7)), nil
}

// Week describes one browsable week for display.
type Week struct {
	Offset int         `json:"offset"`
	ID     WeekID      `json:"week_id"`
	Label  string      `json:"label"`
	Range  string      `json:"range"`
	Start  time.Time   `json:"start"`
	End    time.Time   `json:"end"`
	Dates  []time.Time `json:"dates"`
}

func Describe(now time.Time, offset int) Week {
	monday := MondayOf(now).AddDate(0, 0, 7*offset)
	dates := make([]time.Time, 7)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i)
	}
	return Week{
		Offset: offset,
		ID:     WeekOf(monday),
		Label:  OffsetLabel(offset),
		Range:  ShortDate(dates[0]) + " - " + ShortDate(dates[6]),
		Start:  dates[0],
		End:    dates[6],
		Dates:  dates,
	}
}

func OffsetLabel(offset int) string {
	if offset == 0 {
		return "Trenutna nedelja"
	}
	unit := "nedelje"
	if offset == 1 || offset == -1 {
		unit = "nedelja"
	}
	if offset > 0 {
		return fmt.Sprintf("+%d %s", offset, unit)
	}
	return fmt.Sprintf("%d %s", offset, unit)
}

// ShortDate formats t as "13.okt".
func ShortDate(t time.Time) string {
	return fmt.Sprintf("%d.%s", t.Day(), monthAbbrev[t.Month()-1])
}

// DayRef is one weekday of one stored week.
type DayRef struct {
	Week     WeekID    `json:"week_id"`
	Offset   int       `json:"offset"`
	DayIndex int       `json:"day_index"`
	Date     time.Time `json:"date"`
}

// MonthOverlap lists every (week, weekday) pair whose date falls inside the
// given month. The scan is bounded to the weeks touching the month plus one
// on each side.
func MonthOverlap(now time.Time, year int, month time.Month) []DayRef {
	loc := now.Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	current := MondayOf(now)
	fromOff := int(math.Round(MondayOf(first).Sub(current).Hours() / 24 / 7))
	toOff := int(math.Round(MondayOf(last).Sub(current).Hours() / 24 / 7))

	var refs []DayRef
	for off := fromOff - 1; off <= toOff+1; off++ {
		monday := current.AddDate(0, 0, 7*off)
		id := WeekOf(monday)
		for day := 0; day < 7; day++ {
			date := monday.AddDate(0, 0, day)
			if date.Before(first) || date.After(last) {
				continue
			}
			refs = append(refs, DayRef{Week: id, Offset: off, DayIndex: day, Date: date})
		}
	}
	return refs
}

// MonthDays groups MonthOverlap by week: the weekday indices of each week
// that fall inside the month.
func MonthDays(now time.Time, year int, month time.Month) map[WeekID]map[int]bool {
	out := make(map[WeekID]map[int]bool)
	for _, ref := range MonthOverlap(now, year, month) {
		if out[ref.Week] == nil {
			out[ref.Week] = make(map[int]bool)
		}
		out[ref.Week][ref.DayIndex] = true
	}
	return out
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("malformed month %q, expected YYYY-MM", s)
	}
	return t.Year(), t.Month(), nil
}

// LegacyOffset recognises the relative "week-<offset>" keys written by
// earlier versions of the store.
func LegacyOffset(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, "week-")
	if !ok {
		return 0, false
	}
	off, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return off, true
}
