package employee

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	errors "github.com/frahmantamala/roster-management/internal"
	"github.com/frahmantamala/roster-management/internal/core/events"
	"github.com/frahmantamala/roster-management/internal/core/roster"
)

type RepositoryAPI interface {
	LoadAll(ctx context.Context) ([]Employee, bool, error)
	SaveAll(ctx context.Context, employees []Employee) error
}

// Service is the employee registry. It keeps the registered employees in
// memory in registration order and writes every change through to the
// repository.
type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time

	mu        sync.Mutex
	loaded    bool
	employees []Employee
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) Load(ctx context.Context) error {
	employees, found, err := s.repo.LoadAll(ctx)
	if err != nil {
		s.logger.Error("failed to load employees", "error", err)
		return errors.NewInternalError("failed to load employees", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees = employees
	s.loaded = true
	s.logger.Info("employees loaded", "count", len(employees), "found", found)
	return nil
}

func (s *Service) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// List returns a copy of every employee in registration order.
func (s *Service) List() []Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.employees)
}

func (s *Service) ListByDepartment(department roster.Department) []Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Employee{}
	for _, e := range s.employees {
		if e.Department == department {
			out = append(out, e)
		}
	}
	return out
}

func (s *Service) GetByID(id string) (*Employee, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		e := s.employees[i]
		return &e, true
	}
	return nil, false
}

func (s *Service) FindByName(name string) (*Employee, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOfName(name, ""); i >= 0 {
		e := s.employees[i]
		return &e, true
	}
	return nil, false
}

func (s *Service) Create(ctx context.Context, dto CreateEmployeeDTO) (*Employee, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		s.logger.Warn("employee validation failed", "error", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, errors.ErrStoreNotLoaded
	}
	if s.indexOfName(dto.Name, "") >= 0 {
		return nil, errors.ErrDuplicateEmployee
	}

	emp := NewEmployee(dto, s.now())
	next := append(slices.Clone(s.employees), *emp)
	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Info("employee created",
		"employee_id", emp.ID,
		"department", emp.Department)
	return emp, nil
}

func (s *Service) Update(ctx context.Context, id string, dto UpdateEmployeeDTO) (*Employee, error) {
	dto.Normalize()
	if dto.Empty() {
		return nil, errEmptyUpdate
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, errors.ErrStoreNotLoaded
	}
	i := s.indexOf(id)
	if i < 0 {
		return nil, errors.ErrEmployeeNotFound
	}
	if dto.Name != nil && s.indexOfName(*dto.Name, id) >= 0 {
		return nil, errors.ErrDuplicateEmployee
	}

	next := slices.Clone(s.employees)
	next[i].apply(dto)
	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Info("employee updated", "employee_id", id)
	updated := next[i]
	return &updated, nil
}

// Remove deletes an employee after every subscriber of the removal event has
// dropped its references. If a subscriber fails the employee is kept, and if
// the registry write fails the subscribers' changes are reverted.
func (s *Service) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return errors.ErrStoreNotLoaded
	}
	i := s.indexOf(id)
	if i < 0 {
		return errors.ErrEmployeeNotFound
	}
	emp := s.employees[i]

	var undo events.Compensation
	if s.publisher != nil {
		var err error
		undo, err = s.publisher.PublishCompensable(ctx, events.NewEmployeeRemovedEvent(emp.ID, emp.Name))
		if err != nil {
			s.logger.Error("employee removal cascade failed", "employee_id", id, "error", err)
			return errors.NewInternalError("failed to remove employee references", err)
		}
	}

	next := slices.Delete(slices.Clone(s.employees), i, i+1)
	if err := s.persist(ctx, next); err != nil {
		if undo != nil {
			if rbErr := undo(ctx); rbErr != nil {
				s.logger.Error("failed to restore employee references", "employee_id", id, "error", rbErr)
			}
		}
		return err
	}

	s.logger.Info("employee removed", "employee_id", id)
	return nil
}

func (s *Service) persist(ctx context.Context, next []Employee) error {
	if err := s.repo.SaveAll(ctx, next); err != nil {
		s.logger.Error("failed to save employees", "error", err)
		return errors.NewInternalError("failed to save employees", err)
	}
	s.employees = next
	return nil
}

func (s *Service) indexOf(id string) int {
	return slices.IndexFunc(s.employees, func(e Employee) bool { return e.ID == id })
}

// indexOfName finds name among employees other than exceptID.
func (s *Service) indexOfName(name, exceptID string) int {
	name = strings.TrimSpace(name)
	if name == "" {
		return -1
	}
	return slices.IndexFunc(s.employees, func(e Employee) bool {
		return e.ID != exceptID && SameName(e.Name, name)
	})
}
