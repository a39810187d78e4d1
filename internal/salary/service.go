package salary

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	errors "github.com/frahmantamala/roster-management/internal"
	"github.com/frahmantamala/roster-management/internal/core/calendar"
	"github.com/frahmantamala/roster-management/internal/core/events"
	"github.com/frahmantamala/roster-management/internal/core/roster"
	"github.com/frahmantamala/roster-management/internal/employee"
)

var mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "roster",
	Subsystem: "salary",
	Name:      "mutations_total",
	Help:      "Salary ledger mutations by operation and result.",
}, []string{"operation", "result"})

func observeMutation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	mutationsTotal.WithLabelValues(operation, result).Inc()
}

type Directory interface {
	FindByName(name string) (*employee.Employee, bool)
	GetByID(id string) (*employee.Employee, bool)
	List() []employee.Employee
}

// Service is the salary ledger: one current record per employee plus one
// record per employee and month.
type Service struct {
	repo      RepositoryAPI
	directory Directory
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	loaded  bool
	current map[string]Record
	monthly map[string]MonthlyRecord
}

func NewService(repo RepositoryAPI, directory Directory, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) Load(ctx context.Context) error {
	current, _, err := s.repo.LoadCurrent(ctx)
	if err != nil {
		s.logger.Error("failed to load salaries", "error", err)
		return errors.NewInternalError("failed to load salaries", err)
	}
	monthly, _, err := s.repo.LoadMonthly(ctx)
	if err != nil {
		s.logger.Error("failed to load monthly salaries", "error", err)
		return errors.NewInternalError("failed to load monthly salaries", err)
	}

	if current == nil {
		current = map[string]Record{}
	}
	if monthly == nil {
		monthly = map[string]MonthlyRecord{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = current
	s.monthly = monthly
	s.loaded = true
	s.logger.Info("salaries loaded", "current", len(current), "monthly", len(monthly))
	return nil
}

func (s *Service) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// resolve finds an employee by id first and by name second.
func (s *Service) resolve(ref string) (*employee.Employee, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.NewValidationFieldError("employee", "employee is required", errors.ErrCodeValidationFailed)
	}
	if e, ok := s.directory.GetByID(ref); ok {
		return e, nil
	}
	if e, ok := s.directory.FindByName(ref); ok {
		return e, nil
	}
	return nil, errors.ErrEmployeeNotFound
}

// SetSalary replaces the employee's current salary.
func (s *Service) SetSalary(ctx context.Context, dto SalaryDTO) (entry *Entry, err error) {
	defer func() { observeMutation("set_salary", err) }()

	dto.Normalize()
	amt, err := dto.Validate()
	if err != nil {
		return nil, err
	}
	emp, err := s.resolve(dto.Employee)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, errors.ErrStoreNotLoaded
	}
	rec := Record{
		EmployeeID: emp.ID,
		Total:      amt.total,
		Bank:       amt.bank,
		Cash:       amt.cash,
		CreatedAt:  s.now(),
	}
	next := maps.Clone(s.current)
	next[emp.ID] = rec
	if err := s.persistCurrent(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Info("salary set", "employee_id", emp.ID, "total", rec.Total.String())
	return &Entry{Record: rec, Employee: emp.Name, Position: emp.Position, Department: emp.Department}, nil
}

// RemoveSalary deletes the current salary of the employee given by id or name.
func (s *Service) RemoveSalary(ctx context.Context, employeeRef string) (err error) {
	defer func() { observeMutation("remove_salary", err) }()

	emp, err := s.resolve(employeeRef)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return errors.ErrStoreNotLoaded
	}
	if _, ok := s.current[emp.ID]; !ok {
		return errors.ErrSalaryNotFound
	}
	next := maps.Clone(s.current)
	delete(next, emp.ID)
	if err := s.persistCurrent(ctx, next); err != nil {
		return err
	}
	s.logger.Info("salary removed", "employee_id", emp.ID)
	return nil
}

// List returns current salaries ordered by employee name.
func (s *Service) List() []Entry {
	s.mu.Lock()
	records := slices.Collect(maps.Values(s.current))
	s.mu.Unlock()

	out := make([]Entry, 0, len(records))
	for _, rec := range records {
		e := Entry{Record: rec, Employee: rec.EmployeeID}
		if emp, ok := s.directory.GetByID(rec.EmployeeID); ok {
			e.Employee, e.Position, e.Department = emp.Name, emp.Position, emp.Department
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Employee, b.Employee) })
	return out
}

func (s *Service) Summary() Summary {
	return summarize(s.List())
}

func summarize(entries []Entry) Summary {
	var sum Summary
	for _, e := range entries {
		sum.add(e.Total, e.Bank, e.Cash)
	}
	return sum
}

// SetMonthlySalary records the salary for one month. An existing record for
// the same employee and month is only replaced when Overwrite is set.
func (s *Service) SetMonthlySalary(ctx context.Context, dto MonthlySalaryDTO) (entry *MonthlyEntry, err error) {
	defer func() { observeMutation("set_monthly_salary", err) }()

	dto.Normalize()
	amt, err := dto.Validate()
	if err != nil {
		return nil, err
	}
	year, month, err := calendar.ParseMonth(dto.Month)
	if err != nil {
		return nil, errors.NewValidationFieldError("month", err.Error(), errors.ErrCodeInvalidMonth)
	}
	emp, err := s.resolve(dto.Employee)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, errors.ErrStoreNotLoaded
	}
	key := MonthlyKey(emp.ID, year, month)
	if _, exists := s.monthly[key]; exists && !dto.Overwrite {
		return nil, errors.ErrMonthlySalaryExists
	}
	rec := MonthlyRecord{
		EmployeeID: emp.ID,
		Year:       year,
		Month:      int(month),
		Total:      amt.total,
		Bank:       amt.bank,
		Cash:       amt.cash,
		CreatedAt:  s.now(),
	}
	next := maps.Clone(s.monthly)
	next[key] = rec
	if err := s.persistMonthly(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Info("monthly salary set", "employee_id", emp.ID, "key", key)
	return &MonthlyEntry{MonthlyRecord: rec, Key: key, Employee: emp.Name, Position: emp.Position, Department: emp.Department}, nil
}

func (s *Service) RemoveMonthlySalary(ctx context.Context, key string) (err error) {
	defer func() { observeMutation("remove_monthly_salary", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return errors.ErrStoreNotLoaded
	}
	if _, ok := s.monthly[key]; !ok {
		return errors.ErrSalaryNotFound
	}
	next := maps.Clone(s.monthly)
	delete(next, key)
	if err := s.persistMonthly(ctx, next); err != nil {
		return err
	}
	s.logger.Info("monthly salary removed", "key", key)
	return nil
}

func (s *Service) MonthlyOverview(year int, month time.Month) MonthlyOverview {
	s.mu.Lock()
	var records []MonthlyRecord
	for _, rec := range s.monthly {
		if rec.Year == year && rec.Month == int(month) {
			records = append(records, rec)
		}
	}
	s.mu.Unlock()

	overview := MonthlyOverview{
		Year:         year,
		Month:        int(month),
		MonthName:    calendar.MonthNames[month-1],
		Entries:      make([]MonthlyEntry, 0, len(records)),
		WithoutEntry: []string{},
	}
	paid := map[string]bool{}
	for _, rec := range records {
		e := MonthlyEntry{MonthlyRecord: rec, Key: rec.Key(), Employee: rec.EmployeeID}
		if emp, ok := s.directory.GetByID(rec.EmployeeID); ok {
			e.Employee, e.Position, e.Department = emp.Name, emp.Position, emp.Department
		}
		paid[rec.EmployeeID] = true
		overview.Entries = append(overview.Entries, e)
		overview.Summary.add(rec.Total, rec.Bank, rec.Cash)
	}
	slices.SortFunc(overview.Entries, func(a, b MonthlyEntry) int { return strings.Compare(a.Employee, b.Employee) })

	for _, d := range roster.Departments {
		group := DepartmentGroup{Department: d, Name: d.DisplayName(), Entries: []MonthlyEntry{}}
		for _, e := range overview.Entries {
			if e.Department == d {
				group.Entries = append(group.Entries, e)
				group.Summary.add(e.Total, e.Bank, e.Cash)
			}
		}
		if len(group.Entries) > 0 {
			overview.Departments = append(overview.Departments, group)
		}
	}
	for _, emp := range s.directory.List() {
		if !paid[emp.ID] {
			overview.WithoutEntry = append(overview.WithoutEntry, emp.Name)
		}
	}
	return overview
}

// removedRecords are the records a cascade took away from one employee.
type removedRecords struct {
	current *Record
	monthly map[string]MonthlyRecord
}

func (r removedRecords) empty() bool {
	return r.current == nil && len(r.monthly) == 0
}

// RemoveForEmployee drops the employee's current and monthly records. Either
// both ledgers lose the employee or neither does.
func (s *Service) RemoveForEmployee(ctx context.Context, employeeID string) error {
	_, err := s.removeForEmployee(ctx, employeeID)
	return err
}

func (s *Service) removeForEmployee(ctx context.Context, employeeID string) (removed removedRecords, err error) {
	defer func() { observeMutation("cascade_remove", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return removedRecords{}, errors.ErrStoreNotLoaded
	}

	nextCurrent := s.current
	if rec, ok := s.current[employeeID]; ok {
		removed.current = &rec
		nextCurrent = maps.Clone(s.current)
		delete(nextCurrent, employeeID)
	}
	nextMonthly := s.monthly
	for key, rec := range s.monthly {
		if rec.EmployeeID != employeeID {
			continue
		}
		if removed.monthly == nil {
			removed.monthly = map[string]MonthlyRecord{}
			nextMonthly = maps.Clone(s.monthly)
		}
		removed.monthly[key] = rec
		delete(nextMonthly, key)
	}
	if removed.empty() {
		return removed, nil
	}

	if err := s.commit(ctx, nextCurrent, nextMonthly); err != nil {
		return removedRecords{}, err
	}
	s.logger.Info("salary records removed for employee", "employee_id", employeeID,
		"current", removed.current != nil, "monthly", len(removed.monthly))
	return removed, nil
}

// restoreForEmployee puts back records a cascade removed. Records written for
// the employee since then are kept.
func (s *Service) restoreForEmployee(ctx context.Context, employeeID string, removed removedRecords) (err error) {
	defer func() { observeMutation("cascade_restore", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	nextCurrent := maps.Clone(s.current)
	if _, ok := nextCurrent[employeeID]; !ok && removed.current != nil {
		nextCurrent[employeeID] = *removed.current
	}
	nextMonthly := maps.Clone(s.monthly)
	for key, rec := range removed.monthly {
		if _, ok := nextMonthly[key]; !ok {
			nextMonthly[key] = rec
		}
	}
	if err := s.commit(ctx, nextCurrent, nextMonthly); err != nil {
		return err
	}
	s.logger.Info("salary records restored for employee", "employee_id", employeeID)
	return nil
}

// commit writes both ledgers. When the monthly write fails the current
// ledger is written back to what it was. Callers hold mu.
func (s *Service) commit(ctx context.Context, current map[string]Record, monthly map[string]MonthlyRecord) error {
	prev := s.current
	if err := s.persistCurrent(ctx, current); err != nil {
		return err
	}
	if err := s.persistMonthly(ctx, monthly); err != nil {
		if rbErr := s.persistCurrent(ctx, prev); rbErr != nil {
			s.logger.Error("failed to roll back salaries", "error", rbErr)
		}
		return err
	}
	return nil
}

// HandleEmployeeRemoved is the event bus subscriber for employee removals.
// The returned compensation restores the removed records.
func (s *Service) HandleEmployeeRemoved(ctx context.Context, event events.Event) (events.Compensation, error) {
	ev, ok := event.(*events.EmployeeRemovedEvent)
	if !ok {
		return nil, nil
	}
	removed, err := s.removeForEmployee(ctx, ev.EmployeeID)
	if err != nil || removed.empty() {
		return nil, err
	}
	return func(ctx context.Context) error {
		return s.restoreForEmployee(ctx, ev.EmployeeID, removed)
	}, nil
}

func (s *Service) persistCurrent(ctx context.Context, next map[string]Record) error {
	if err := s.repo.SaveCurrent(ctx, next); err != nil {
		s.logger.Error("failed to save salaries", "error", err)
		return errors.NewInternalError("failed to save salaries", err)
	}
	s.current = next
	return nil
}

func (s *Service) persistMonthly(ctx context.Context, next map[string]MonthlyRecord) error {
	if err := s.repo.SaveMonthly(ctx, next); err != nil {
		s.logger.Error("failed to save monthly salaries", "error", err)
		return errors.NewInternalError("failed to save monthly salaries", err)
	}
	s.monthly = next
	return nil
}
