package analytics

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultShiftHours is credited for labels without any recognisable time.
const DefaultShiftHours = 8.0

const splitSeparator = " i "

var (
	rangePattern   = regexp.MustCompile(`(\d+)(?::(\d{2}))?\s*-\s*(\d+)(?::(\d{2}))?`)
	integerPattern = regexp.MustCompile(`\d+`)
)

// ParseShiftHours converts a shift label such as "8-16", "16-00" or
// "10-14 i 18-22" into hours. It never fails: unreadable labels count as
// DefaultShiftHours.
func ParseShiftHours(label string) float64 {
	label = strings.TrimSpace(label)
	if strings.Contains(label, splitSeparator) {
		total := 0.0
		for _, part := range strings.Split(label, splitSeparator) {
			total += ParseShiftHours(part)
		}
		return total
	}

	if m := rangePattern.FindStringSubmatch(label); m != nil {
		return span(clock(m[1], m[2]), clock(m[3], m[4]))
	}
	if ints := integerPattern.FindAllString(label, 2); len(ints) == 2 {
		return span(clock(ints[0], ""), clock(ints[1], ""))
	}
	return DefaultShiftHours
}

func clock(hours, minutes string) float64 {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	return float64(h) + float64(m)/60
}

// span is the length of a shift from start to end, wrapping past midnight.
func span(start, end float64) float64 {
	switch {
	case end > start:
		return end - start
	case end == 0:
		return 24 - start
	default:
		return (24 - start) + end
	}
}
