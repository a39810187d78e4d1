package salary

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/roster-management/internal/core/roster"
)

// Record is an employee's current salary split.
type Record struct {
	EmployeeID string          `json:"employee_id"`
	Total      decimal.Decimal `json:"total"`
	Bank       decimal.Decimal `json:"bank"`
	Cash       decimal.Decimal `json:"cash"`
	CreatedAt  time.Time       `json:"created_at"`
}

// MonthlyRecord is the salary paid to an employee for one calendar month.
type MonthlyRecord struct {
	EmployeeID string          `json:"employee_id"`
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	Total      decimal.Decimal `json:"total"`
	Bank       decimal.Decimal `json:"bank"`
	Cash       decimal.Decimal `json:"cash"`
	CreatedAt  time.Time       `json:"created_at"`
}

func MonthlyKey(employeeID string, year int, month time.Month) string {
	return fmt.Sprintf("%s-%04d-%02d", employeeID, year, int(month))
}

func (r MonthlyRecord) Key() string {
	return MonthlyKey(r.EmployeeID, r.Year, time.Month(r.Month))
}

// Entry is a current record with the employee resolved for display.
type Entry struct {
	Record
	Employee   string            `json:"employee"`
	Position   string            `json:"position,omitempty"`
	Department roster.Department `json:"department,omitempty"`
}

type MonthlyEntry struct {
	MonthlyRecord
	Key        string            `json:"key"`
	Employee   string            `json:"employee"`
	Position   string            `json:"position,omitempty"`
	Department roster.Department `json:"department,omitempty"`
}

type Summary struct {
	Count   int             `json:"count"`
	Total   decimal.Decimal `json:"total"`
	Bank    decimal.Decimal `json:"bank"`
	Cash    decimal.Decimal `json:"cash"`
	Average decimal.Decimal `json:"average"`
}

func (s *Summary) add(total, bank, cash decimal.Decimal) {
	s.Count++
	s.Total = s.Total.Add(total)
	s.Bank = s.Bank.Add(bank)
	s.Cash = s.Cash.Add(cash)
	s.Average = s.Total.DivRound(decimal.NewFromInt(int64(s.Count)), 2)
}

type DepartmentGroup struct {
	Department roster.Department `json:"department"`
	Name       string            `json:"name"`
	Entries    []MonthlyEntry    `json:"entries"`
	Summary    Summary           `json:"summary"`
}

// MonthlyOverview is the payroll of one month: every record, totals, the
// same records grouped by department and the employees still without one.
type MonthlyOverview struct {
	Year         int               `json:"year"`
	Month        int               `json:"month"`
	MonthName    string            `json:"month_name"`
	Entries      []MonthlyEntry    `json:"entries"`
	Summary      Summary           `json:"summary"`
	Departments  []DepartmentGroup `json:"departments"`
	WithoutEntry []string          `json:"without_entry"`
}
