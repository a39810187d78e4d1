package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	apperrors "github.com/frahmantamala/roster-management/internal"
	"github.com/frahmantamala/roster-management/internal/core/roster"
	"github.com/frahmantamala/roster-management/internal/employee"
	"github.com/frahmantamala/roster-management/internal/kvstore"
	"github.com/frahmantamala/roster-management/internal/salary"
	"github.com/frahmantamala/roster-management/internal/schedule"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with sample data",
	Long:  `Seed the store with sample employees, a week of shifts and salaries for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		lg := setupLogger(cfg)

		store, err := openStore(ctx, cfg.Storage, lg)
		if err != nil {
			log.Fatalf("failed to open store: %v", err)
		}
		defer store.Close()

		if clearData {
			if err := clearStore(ctx, store); err != nil {
				log.Fatalf("failed to clear store: %v", err)
			}
			fmt.Println("Cleared employees, schedules and salaries")
		}

		deps, err := BuildDependencies(ctx, cfg, store, nil, lg)
		if err != nil {
			log.Fatalf("failed to initialize services: %v", err)
		}
		if err := seed(ctx, deps); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
	},
}

type seedEmployee struct {
	dto    employee.CreateEmployeeDTO
	salary salary.SalaryDTO
}

var seedEmployees = []seedEmployee{
	{dto: employee.CreateEmployeeDTO{Name: "Ana Petrović", Position: "Kuvar", Department: "kitchen", Phone: "064 111 2233"}, salary: salary.SalaryDTO{Total: "95000", Bank: "60000"}},
	{dto: employee.CreateEmployeeDTO{Name: "Milan Jovanović", Position: "Pomoćni kuvar", Department: "kitchen"}, salary: salary.SalaryDTO{Total: "70000", Bank: "50000"}},
	{dto: employee.CreateEmployeeDTO{Name: "Marko Nikolić", Position: "Konobar", Department: "restaurant", Phone: "063 555 1212"}, salary: salary.SalaryDTO{Total: "80000", Bank: "50000"}},
	{dto: employee.CreateEmployeeDTO{Name: "Jelena Ilić", Position: "Šanker", Department: "restaurant"}, salary: salary.SalaryDTO{Total: "78000", Bank: "78000"}},
	{dto: employee.CreateEmployeeDTO{Name: "Stefan Marković", Position: "Spasilac", Department: "pool"}, salary: salary.SalaryDTO{Total: "65000", Bank: "40000"}},
}

func clearStore(ctx context.Context, store kvstore.Store) error {
	if err := kvstore.Save(ctx, store, kvstore.KeyEmployees, []employee.Employee{}); err != nil {
		return err
	}
	if err := kvstore.Save(ctx, store, kvstore.KeySchedules, schedule.Schedules{}); err != nil {
		return err
	}
	if err := kvstore.Save(ctx, store, kvstore.KeySalaries, map[string]salary.Record{}); err != nil {
		return err
	}
	return kvstore.Save(ctx, store, kvstore.KeyMonthlySalaries, map[string]salary.MonthlyRecord{})
}

// seed registers the sample staff, gives everyone a current salary and fills
// the current week. Existing employees are left as they are.
func seed(ctx context.Context, deps *Dependencies) error {
	for _, s := range seedEmployees {
		emp, err := deps.Employees.Create(ctx, s.dto)
		if errors.Is(err, apperrors.ErrDuplicateEmployee) {
			fmt.Println("employee already exists:", s.dto.Name)
			continue
		}
		if err != nil {
			return fmt.Errorf("create %s: %w", s.dto.Name, err)
		}
		s.salary.Employee = emp.ID
		if _, err := deps.Salaries.SetSalary(ctx, s.salary); err != nil {
			return fmt.Errorf("salary for %s: %w", emp.Name, err)
		}
		fmt.Println("Seeded employee:", emp.Name)
	}

	layout := deps.Schedules.Layout()
	for j, e := range deps.Employees.List() {
		for i, day := range roster.Days[:5] {
			var err error
			if layout.KindOf(e.Department) == roster.SlotKindNamedPosition {
				pos := roster.Positions[(i+j)%len(roster.Positions)]
				err = deps.Schedules.AssignToPosition(ctx, 0, e.Department, day, pos.ID, e.Name)
			} else {
				shifts := deps.Schedules.Shifts()
				err = deps.Schedules.Assign(ctx, 0, e.Department, day, shifts[(i+j)%len(shifts)], e.Name)
			}
			if errors.Is(err, apperrors.ErrDuplicateAssignment) {
				continue
			}
			if err != nil {
				return fmt.Errorf("assign %s on %s: %w", e.Name, day, err)
			}
		}
	}
	fmt.Println("Seeded current week schedule")
	return nil
}
