package schedule

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	errors "github.com/frahmantamala/roster-management/internal"
	"github.com/frahmantamala/roster-management/internal/core/calendar"
	"github.com/frahmantamala/roster-management/internal/core/events"
	"github.com/frahmantamala/roster-management/internal/core/roster"
	"github.com/frahmantamala/roster-management/internal/employee"
)

// Directory resolves employees for the schedule. It is satisfied by the
// employee registry.
type Directory interface {
	FindByName(name string) (*employee.Employee, bool)
	GetByID(id string) (*employee.Employee, bool)
	ListByDepartment(department roster.Department) []employee.Employee
}

type Settings struct {
	Layout roster.Layout
	// Shifts are the time-range labels every time-range department shows.
	Shifts []string
	Clock  calendar.Clock
}

// Service owns the weekly schedule. Weeks are stored by ISO week id and
// addressed by callers through offsets from the current week.
//
// Employee names are resolved through the directory outside of mu: the
// registry holds its own lock while the removal cascade runs here.
type Service struct {
	repo      RepositoryAPI
	directory Directory
	layout    roster.Layout
	shifts    []string
	clock     calendar.Clock
	logger    *slog.Logger

	mu        sync.Mutex
	loaded    bool
	schedules Schedules
}

func NewService(repo RepositoryAPI, directory Directory, settings Settings, logger *slog.Logger) *Service {
	if settings.Layout == nil {
		settings.Layout = roster.Layout{}
	}
	if len(settings.Shifts) == 0 {
		settings.Shifts = roster.DefaultShifts
	}
	if settings.Clock == nil {
		settings.Clock = calendar.SystemClock(nil)
	}
	return &Service{
		repo:      repo,
		directory: directory,
		layout:    settings.Layout,
		shifts:    slices.Clone(settings.Shifts),
		clock:     settings.Clock,
		logger:    logger,
	}
}

// Load hydrates the schedule. Legacy "week-<offset>" entries are re-keyed to
// the week they denote today and positions holding several employees keep
// only the first. A stored slot whose kind differs from its department's
// configured kind fails the load.
func (s *Service) Load(ctx context.Context) error {
	raw, found, err := s.repo.LoadAll(ctx)
	if err != nil {
		s.logger.Error("failed to load schedules", "error", err)
		return errors.NewInternalError("failed to load schedules", err)
	}

	now := s.clock()
	schedules := Schedules{}
	rekeyed, trimmed := 0, 0
	for rawID, week := range raw {
		id, err := calendar.ParseWeekID(rawID)
		if err != nil {
			off, ok := calendar.LegacyOffset(rawID)
			if !ok {
				s.logger.Warn("skipping unrecognised schedule week", "week", rawID)
				continue
			}
			id = calendar.WeekForOffset(now, off)
			rekeyed++
		}
		for key, ids := range week {
			k, ok := ParseKey(key)
			if !ok {
				s.logger.Warn("skipping malformed slot key", "week", rawID, "key", key)
				continue
			}
			if k.Department.Valid() && k.Kind() != s.layout.KindOf(k.Department) {
				return errors.NewConflictError(
					"slot "+key+" does not match the "+string(s.layout.KindOf(k.Department))+" layout of "+string(k.Department),
					errors.ErrCodeSlotKindConflict)
			}
			merged := slices.Clone(schedules.get(id, key))
			for _, empID := range ids {
				if !slices.Contains(merged, empID) {
					merged = append(merged, empID)
				}
			}
			if k.Kind() == roster.SlotKindNamedPosition && len(merged) > 1 {
				s.logger.Warn("position held more than one employee, keeping the first",
					"week", id, "key", key, "dropped", merged[1:])
				merged = merged[:1]
				trimmed++
			}
			schedules.set(id, key, merged)
		}
	}

	if rekeyed > 0 || trimmed > 0 {
		if err := s.repo.SaveAll(ctx, schedules); err != nil {
			s.logger.Warn("failed to rewrite normalised schedule weeks", "error", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = schedules
	s.loaded = true
	storedWeeks.Set(float64(len(schedules)))
	s.logger.Info("schedules loaded", "weeks", len(schedules), "found", found, "rekeyed", rekeyed, "trimmed", trimmed)
	return nil
}

func (s *Service) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *Service) Layout() roster.Layout {
	return s.layout
}

func (s *Service) Shifts() []string {
	return slices.Clone(s.shifts)
}

// Now is the service clock, shared with the views built on top of it.
func (s *Service) Now() calendar.Clock {
	return s.clock
}

// Snapshot returns a deep copy of every stored week.
func (s *Service) Snapshot() Schedules {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedules.Clone()
}

func (s *Service) week(offset int) calendar.WeekID {
	return calendar.WeekForOffset(s.clock(), offset)
}

func (s *Service) weekCopy(offset int) Week {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedules[s.week(offset)].Clone()
}

// GetAssignees returns the names assigned to one slot, empty when there are
// none or the store is not loaded yet.
func (s *Service) GetAssignees(offset int, department roster.Department, day, label string) []string {
	key := BuildKey(department, day, strings.TrimSpace(label))
	s.mu.Lock()
	ids := slices.Clone(s.schedules.get(s.week(offset), key))
	s.mu.Unlock()
	return s.names(ids)
}

// DisplayName returns the employee's name, or the id itself when the
// employee is no longer registered.
func (s *Service) DisplayName(id string) string {
	if e, ok := s.directory.GetByID(id); ok {
		return e.Name
	}
	return id
}

func (s *Service) names(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.DisplayName(id))
	}
	return out
}

func (s *Service) resolveEmployee(name string) (*employee.Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationFieldError("employee", "employee is required", errors.ErrCodeValidationFailed)
	}
	e, ok := s.directory.FindByName(name)
	if !ok {
		return nil, errors.ErrEmployeeNotFound
	}
	return e, nil
}

// Assign appends an employee to a time-range slot. Positions hold a single
// employee and are filled through AssignToPosition.
func (s *Service) Assign(ctx context.Context, offset int, department roster.Department, day, label, employeeName string) (err error) {
	defer func() { observeMutation("assign", err) }()

	slot, err := ResolveSlot(s.layout, department, day, label)
	if err != nil {
		return err
	}
	if slot.Kind == roster.SlotKindNamedPosition {
		return errors.NewValidationFieldError("shift",
			string(department)+" schedules by position, place employees on "+slot.Label+" with a position assignment",
			errors.ErrCodeSlotKindMismatch)
	}
	emp, err := s.resolveEmployee(employeeName)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return errors.ErrStoreNotLoaded
	}
	week, key := s.week(offset), slot.String()
	current := s.schedules.get(week, key)
	if slices.Contains(current, emp.ID) {
		return errors.ErrDuplicateAssignment
	}

	next := s.schedules.Clone()
	next.set(week, key, append(slices.Clone(current), emp.ID))
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.logger.Info("employee assigned", "week", week, "slot", key, "employee_id", emp.ID)
	return nil
}

// Unassign removes the index-th assignee of a slot. An index outside the
// slot is ignored.
func (s *Service) Unassign(ctx context.Context, offset int, department roster.Department, day, label string, index int) (err error) {
	defer func() { observeMutation("unassign", err) }()

	slot, err := ResolveSlot(s.layout, department, day, label)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return errors.ErrStoreNotLoaded
	}
	week, key := s.week(offset), slot.String()
	current := s.schedules.get(week, key)
	if index < 0 || index >= len(current) {
		return nil
	}

	next := s.schedules.Clone()
	next.set(week, key, slices.Delete(slices.Clone(current), index, index+1))
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.logger.Info("employee unassigned", "week", week, "slot", key, "index", index)
	return nil
}

func (s *Service) resolvePosition(department roster.Department, day, positionID string) (Slot, error) {
	if s.layout.KindOf(department) != roster.SlotKindNamedPosition {
		return Slot{}, errors.NewValidationFieldError("department",
			string(department)+" does not schedule by position", errors.ErrCodeSlotKindMismatch)
	}
	if _, ok := roster.PositionByID(strings.TrimSpace(positionID)); !ok {
		return Slot{}, errors.NewValidationFieldError("position", "unknown position "+positionID, errors.ErrCodeInvalidPosition)
	}
	return ResolveSlot(s.layout, department, day, positionID)
}

// AssignToPosition makes the employee the only occupant of a position and
// takes them off every other position of the same department and day.
func (s *Service) AssignToPosition(ctx context.Context, offset int, department roster.Department, day, positionID, employeeName string) (err error) {
	defer func() { observeMutation("assign_position", err) }()

	slot, err := s.resolvePosition(department, day, positionID)
	if err != nil {
		return err
	}
	emp, err := s.resolveEmployee(employeeName)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return errors.ErrStoreNotLoaded
	}
	week := s.week(offset)
	next := s.schedules.Clone()
	s.vacateOtherPositions(next, week, slot, emp.ID)
	next.set(week, slot.String(), []string{emp.ID})
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.logger.Info("employee placed on position", "week", week, "slot", slot.String(), "employee_id", emp.ID)
	return nil
}

// vacateOtherPositions takes the employee off every position of slot's
// department and day other than slot itself.
func (s *Service) vacateOtherPositions(next Schedules, week calendar.WeekID, slot Slot, employeeID string) {
	for _, p := range roster.Positions {
		if p.ID == slot.Label {
			continue
		}
		key := BuildKey(slot.Department, slot.Day, p.ID)
		if ids := next.get(week, key); slices.Contains(ids, employeeID) {
			next.set(week, key, slices.DeleteFunc(slices.Clone(ids), func(id string) bool { return id == employeeID }))
		}
	}
}

func (s *Service) ClearPosition(ctx context.Context, offset int, department roster.Department, day, positionID string) (err error) {
	defer func() { observeMutation("clear_position", err) }()

	slot, err := s.resolvePosition(department, day, positionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return errors.ErrStoreNotLoaded
	}
	week := s.week(offset)
	if len(s.schedules.get(week, slot.String())) == 0 {
		return nil
	}
	next := s.schedules.Clone()
	next.set(week, slot.String(), nil)
	return s.persist(ctx, next)
}

// placement is one employee on one department's positions for one day.
type placement struct {
	department roster.Department
	day        string
	employeeID string
}

// BulkUpdate overwrites the given slots of one week with the named
// employees. Slots not mentioned are left alone; an empty list clears a slot.
// A position takes at most one employee, who leaves the other positions of
// that department and day.
func (s *Service) BulkUpdate(ctx context.Context, offset int, partial map[string][]string) (err error) {
	defer func() { observeMutation("bulk_update", err) }()

	resolved := make(map[string][]string, len(partial))
	placed := map[placement]Slot{}
	for key, names := range partial {
		slot, err := ResolveKey(s.layout, key)
		if err != nil {
			return err
		}
		if slot.Kind == roster.SlotKindNamedPosition && len(names) > 1 {
			return errors.NewValidationFieldError("slots",
				"position "+slot.String()+" holds at most one employee", errors.ErrCodePositionCapacity)
		}
		ids := make([]string, 0, len(names))
		for _, name := range names {
			emp, err := s.resolveEmployee(name)
			if err != nil {
				return err
			}
			if slices.Contains(ids, emp.ID) {
				return errors.ErrDuplicateAssignment
			}
			ids = append(ids, emp.ID)
		}
		if slot.Kind == roster.SlotKindNamedPosition && len(ids) == 1 {
			at := placement{department: slot.Department, day: slot.Day, employeeID: ids[0]}
			if _, taken := placed[at]; taken {
				return errors.ErrDuplicateAssignment
			}
			placed[at] = slot
		}
		resolved[slot.String()] = ids
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return errors.ErrStoreNotLoaded
	}
	week := s.week(offset)
	next := s.schedules.Clone()
	for key, ids := range resolved {
		next.set(week, key, ids)
	}
	for at, slot := range placed {
		s.vacateOtherPositions(next, week, slot, at.employeeID)
	}
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.logger.Info("schedule week updated", "week", week, "slots", len(resolved))
	return nil
}

// removedAssignments records, per week and slot key, the index an employee
// held before a cascade took them off.
type removedAssignments map[calendar.WeekID]map[string]int

// CascadeRemoveEmployee drops every assignment of the employee in every week.
func (s *Service) CascadeRemoveEmployee(ctx context.Context, employeeID string) error {
	_, err := s.cascadeRemove(ctx, employeeID)
	return err
}

func (s *Service) cascadeRemove(ctx context.Context, employeeID string) (removed removedAssignments, err error) {
	defer func() { observeMutation("cascade_remove", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, errors.ErrStoreNotLoaded
	}

	next := s.schedules.Clone()
	removed = removedAssignments{}
	count := 0
	for id, week := range next {
		for key, ids := range week {
			i := slices.Index(ids, employeeID)
			if i < 0 {
				continue
			}
			if removed[id] == nil {
				removed[id] = map[string]int{}
			}
			removed[id][key] = i
			kept := slices.DeleteFunc(ids, func(v string) bool { return v == employeeID })
			count += len(ids) - len(kept)
			week[key] = kept
		}
	}
	if count == 0 {
		return nil, nil
	}
	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}
	s.logger.Info("employee removed from schedules", "employee_id", employeeID, "assignments", count)
	return removed, nil
}

// restoreAssignments puts the employee back where a cascade found them. A
// position taken by someone else in the meantime is left to its occupant.
func (s *Service) restoreAssignments(ctx context.Context, employeeID string, removed removedAssignments) (err error) {
	defer func() { observeMutation("cascade_restore", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.schedules.Clone()
	for week, slots := range removed {
		for key, index := range slots {
			ids := next.get(week, key)
			if slices.Contains(ids, employeeID) {
				continue
			}
			if k, ok := ParseKey(key); ok && k.Kind() == roster.SlotKindNamedPosition && len(ids) > 0 {
				s.logger.Warn("position taken while restoring employee", "week", week, "slot", key, "employee_id", employeeID)
				continue
			}
			next.set(week, key, slices.Insert(slices.Clone(ids), min(index, len(ids)), employeeID))
		}
	}
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.logger.Info("employee assignments restored", "employee_id", employeeID)
	return nil
}

// HandleEmployeeRemoved is the event bus subscriber for employee removals.
// The returned compensation restores the removed assignments.
func (s *Service) HandleEmployeeRemoved(ctx context.Context, event events.Event) (events.Compensation, error) {
	ev, ok := event.(*events.EmployeeRemovedEvent)
	if !ok {
		return nil, nil
	}
	removed, err := s.cascadeRemove(ctx, ev.EmployeeID)
	if err != nil || len(removed) == 0 {
		return nil, err
	}
	return func(ctx context.Context) error {
		return s.restoreAssignments(ctx, ev.EmployeeID, removed)
	}, nil
}

// persist prunes next, writes it and swaps it in. Callers hold mu.
func (s *Service) persist(ctx context.Context, next Schedules) error {
	next.prune()
	if err := s.repo.SaveAll(ctx, next); err != nil {
		s.logger.Error("failed to save schedules", "error", err)
		return errors.NewInternalError("failed to save schedules", err)
	}
	s.schedules = next
	storedWeeks.Set(float64(len(next)))
	return nil
}
