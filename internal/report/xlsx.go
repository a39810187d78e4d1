package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	errors "github.com/frahmantamala/roster-management/internal"
	"github.com/frahmantamala/roster-management/internal/core/calendar"
	"github.com/frahmantamala/roster-management/internal/core/roster"
	"github.com/frahmantamala/roster-management/internal/schedule"
)

const (
	ScheduleSheet = "Raspored"
	WorkloadSheet = "Opterećenje"
)

// ScheduleWorkbook renders the week as a grid (one row per department slot,
// one column per day) plus a sheet with the overall workload per employee.
func (s *Service) ScheduleWorkbook(offset int) (*Document, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close workbook", "error", err)
		}
	}()

	if err := s.writeScheduleSheet(f, offset); err != nil {
		s.logger.Error("failed to render schedule sheet", "offset", offset, "error", err)
		return nil, errors.NewInternalError("failed to render schedule workbook", err)
	}
	if err := s.writeWorkloadSheet(f); err != nil {
		s.logger.Error("failed to render workload sheet", "error", err)
		return nil, errors.NewInternalError("failed to render schedule workbook", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.NewInternalError("failed to render schedule workbook", err)
	}
	return &Document{
		Filename:    fmt.Sprintf("raspored-nedelja-%d.xlsx", offset),
		ContentType: ContentTypeXLSX,
		Body:        buf.Bytes(),
	}, nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (s *Service) writeScheduleSheet(f *excelize.File, offset int) error {
	if err := f.SetSheetName("Sheet1", ScheduleSheet); err != nil {
		return err
	}
	week := calendar.Describe(s.clock(), offset)

	title := fmt.Sprintf("RASPORED SMENA - NEDELJA %s (%s)", weekTitle(offset), week.Range)
	if err := f.SetCellValue(ScheduleSheet, "A1", title); err != nil {
		return err
	}
	lastCol := 2 + len(roster.Days)
	if err := f.MergeCell(ScheduleSheet, "A1", cell(lastCol, 1)); err != nil {
		return err
	}

	header := []string{"Odeljenje", "Smena"}
	for i, day := range roster.Days {
		header = append(header, fmt.Sprintf("%s %s", day, calendar.ShortDate(week.Dates[i])))
	}
	for i, h := range header {
		if err := f.SetCellValue(ScheduleSheet, cell(i+1, 3), h); err != nil {
			return err
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(ScheduleSheet, "A3", cell(lastCol, 3), headerStyle); err != nil {
		return err
	}

	row := 4
	for _, d := range roster.Departments {
		view := s.schedules.WeekView(offset, d)
		for _, label := range slotLabels(view) {
			if err := f.SetCellValue(ScheduleSheet, cell(1, row), d.DisplayName()); err != nil {
				return err
			}
			if err := f.SetCellValue(ScheduleSheet, cell(2, row), label); err != nil {
				return err
			}
			for i, day := range view.Days {
				idx := slices.IndexFunc(day.Slots, func(sv schedule.SlotView) bool { return sv.Label == label })
				if idx < 0 || len(day.Slots[idx].Assignees) == 0 {
					continue
				}
				names := strings.Join(day.Slots[idx].Assignees, ", ")
				if err := f.SetCellValue(ScheduleSheet, cell(3+i, row), names); err != nil {
					return err
				}
			}
			row++
		}
	}

	if err := f.SetColWidth(ScheduleSheet, "A", "B", 16); err != nil {
		return err
	}
	lastName, err := excelize.ColumnNumberToName(lastCol)
	if err != nil {
		return err
	}
	return f.SetColWidth(ScheduleSheet, "C", lastName, 22)
}

// slotLabels returns every slot label of the view in first-seen order.
func slotLabels(view schedule.WeekView) []string {
	var out []string
	for _, day := range view.Days {
		for _, slot := range day.Slots {
			if !slices.Contains(out, slot.Label) {
				out = append(out, slot.Label)
			}
		}
	}
	return out
}

func (s *Service) writeWorkloadSheet(f *excelize.File) error {
	if _, err := f.NewSheet(WorkloadSheet); err != nil {
		return err
	}
	report := s.analytics.Overall()

	header := []string{"Zaposleni", "Pozicija", "Odeljenje", "Sati", "Smene", "Radnih dana", "Prosek sati/dan"}
	for i, h := range header {
		if err := f.SetCellValue(WorkloadSheet, cell(i+1, 1), h); err != nil {
			return err
		}
	}
	for i, w := range report.Workload {
		values := []interface{}{w.Name, w.Position, w.Department, w.Hours, w.Shifts, w.DaysWorked, w.AverageHoursPerDay}
		for j, v := range values {
			if err := f.SetCellValue(WorkloadSheet, cell(j+1, i+2), v); err != nil {
				return err
			}
		}
	}
	totalRow := len(report.Workload) + 3
	if err := f.SetCellValue(WorkloadSheet, cell(1, totalRow), "Ukupno"); err != nil {
		return err
	}
	if err := f.SetCellValue(WorkloadSheet, cell(4, totalRow), report.TotalHours); err != nil {
		return err
	}
	if err := f.SetCellValue(WorkloadSheet, cell(5, totalRow), report.TotalShifts); err != nil {
		return err
	}
	return f.SetColWidth(WorkloadSheet, "A", "C", 18)
}
