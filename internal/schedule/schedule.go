package schedule

import (
	"maps"
	"slices"

	"github.com/frahmantamala/roster-management/internal/core/calendar"
)

// Week maps slot keys to the ordered ids of the employees assigned there.
type Week map[string][]string

// Schedules holds every stored week by ISO week id.
type Schedules map[calendar.WeekID]Week

func (w Week) Clone() Week {
	out := make(Week, len(w))
	for k, ids := range w {
		out[k] = slices.Clone(ids)
	}
	return out
}

func (s Schedules) Clone() Schedules {
	out := make(Schedules, len(s))
	for id, w := range s {
		out[id] = w.Clone()
	}
	return out
}

// WeekIDs returns the stored week ids in chronological order.
func (s Schedules) WeekIDs() []calendar.WeekID {
	return slices.Sorted(maps.Keys(s))
}

// set replaces the assignees of key, pruning the slot and the week when
// nothing is left.
func (s Schedules) set(week calendar.WeekID, key string, ids []string) {
	if len(ids) == 0 {
		if w, ok := s[week]; ok {
			delete(w, key)
			if len(w) == 0 {
				delete(s, week)
			}
		}
		return
	}
	w, ok := s[week]
	if !ok {
		w = Week{}
		s[week] = w
	}
	w[key] = ids
}

func (s Schedules) get(week calendar.WeekID, key string) []string {
	return s[week][key]
}

// prune drops empty slots and weeks.
func (s Schedules) prune() {
	for id, w := range s {
		for k, ids := range w {
			if len(ids) == 0 {
				delete(w, k)
			}
		}
		if len(w) == 0 {
			delete(s, id)
		}
	}
}
