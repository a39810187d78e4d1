package salary

import (
	"strings"

	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/roster-management/internal"
	"github.com/frahmantamala/roster-management/internal/core/common/validation"
)

// SalaryDTO carries amounts as typed by the user; "1500,50" is accepted.
type SalaryDTO struct {
	Employee string `json:"employee" validate:"required"`
	Total    string `json:"total" validate:"required"`
	Bank     string `json:"bank" validate:"required"`
}

type MonthlySalaryDTO struct {
	Employee string `json:"employee" validate:"required"`
	// Month is "YYYY-MM".
	Month     string `json:"month" validate:"required"`
	Total     string `json:"total" validate:"required"`
	Bank      string `json:"bank" validate:"required"`
	Overwrite bool   `json:"overwrite,omitempty"`
}

type amounts struct {
	total, bank, cash decimal.Decimal
}

func (d *SalaryDTO) Normalize() {
	d.Employee = strings.TrimSpace(d.Employee)
	d.Total = strings.TrimSpace(d.Total)
	d.Bank = strings.TrimSpace(d.Bank)
}

func (d *MonthlySalaryDTO) Normalize() {
	d.Employee = strings.TrimSpace(d.Employee)
	d.Month = strings.TrimSpace(d.Month)
	d.Total = strings.TrimSpace(d.Total)
	d.Bank = strings.TrimSpace(d.Bank)
}

func parseAmounts(total, bank string) (amounts, error) {
	var out amounts
	var appErr *errors.AppError
	if out.total, appErr = validation.ParseAmount("total", total); appErr != nil {
		return out, appErr
	}
	if out.bank, appErr = validation.ParseAmount("bank", bank); appErr != nil {
		return out, appErr
	}
	if appErr = validation.ValidateSalarySplit(out.total, out.bank); appErr != nil {
		return out, appErr
	}
	out.cash = out.total.Sub(out.bank)
	return out, nil
}

func (d SalaryDTO) Validate() (amounts, error) {
	if err := validation.ValidateStruct(d); err != nil {
		return amounts{}, err
	}
	return parseAmounts(d.Total, d.Bank)
}

func (d MonthlySalaryDTO) Validate() (amounts, error) {
	if err := validation.ValidateStruct(d); err != nil {
		return amounts{}, err
	}
	return parseAmounts(d.Total, d.Bank)
}

type SalariesResponse struct {
	Salaries []Entry `json:"salaries"`
	Summary  Summary `json:"summary"`
}
