package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/frahmantamala/roster-management/internal/core/roster"
	"github.com/frahmantamala/roster-management/internal/schedule"
)

func textDocument(filename string, b *strings.Builder) *Document {
	return &Document{Filename: filename, ContentType: ContentTypeText, Body: []byte(b.String())}
}

// ScheduleText lists every assigned slot of the week, day by day across all
// departments, followed by headcount statistics.
func (s *Service) ScheduleText(offset int) *Document {
	people := s.directory()
	views := make([]schedule.WeekView, 0, len(roster.Departments))
	for _, d := range roster.Departments {
		views = append(views, s.schedules.WeekView(offset, d))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "RASPORED SMENA - NEDELJA %s\n", weekTitle(offset))
	b.WriteString(rule("=", 50))
	b.WriteString("\n")

	scheduled := map[string]bool{}
	for i, day := range roster.Days {
		fmt.Fprintf(&b, "📅 %s\n", strings.ToUpper(day))
		b.WriteString(rule("-", 30))

		hasSlots := false
		for _, view := range views {
			for _, slot := range view.Days[i].Slots {
				if len(slot.Assignees) == 0 {
					continue
				}
				hasSlots = true
				fmt.Fprintf(&b, "⏰ %s:\n", slotHeading(view.Department, slot))
				for _, name := range slot.Assignees {
					scheduled[name] = true
					emp := people[name]
					b.WriteString(personLine(name, emp.Position, emp.Phone))
				}
				b.WriteString("\n")
			}
		}
		if !hasSlots {
			b.WriteString("   Nema zakazanih smena\n\n")
		}
		b.WriteString("\n")
	}

	total := len(people)
	b.WriteString("\n📊 STATISTIKE:\n")
	b.WriteString(rule("-", 20))
	fmt.Fprintf(&b, "Ukupno zaposlenih: %d\n", total)
	fmt.Fprintf(&b, "Raspoređeno: %d\n", len(scheduled))
	fmt.Fprintf(&b, "Slobodno: %d\n", max(total-len(scheduled), 0))

	s.logger.Debug("schedule text export rendered", "offset", offset)
	return textDocument(fmt.Sprintf("raspored-nedelja-%d.txt", offset), &b)
}

func slotHeading(department roster.Department, slot schedule.SlotView) string {
	if slot.Position != nil {
		return fmt.Sprintf("%s %s (%sh)", department.DisplayName(), slot.Label, slot.Hours)
	}
	return fmt.Sprintf("%s %sh", department.DisplayName(), slot.Hours)
}

// FreeText lists, per day, who has no assignment in their own department and
// who is working.
func (s *Service) FreeText(offset int) *Document {
	people := s.directory()
	views := make([]schedule.FreeView, 0, len(roster.Departments))
	for _, d := range roster.Departments {
		views = append(views, s.schedules.FreeEmployees(offset, d))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SLOBODNI ZAPOSLENI - NEDELJA %s\n", weekTitle(offset))
	b.WriteString(rule("=", 50))
	b.WriteString("\n")

	for i, day := range roster.Days {
		fmt.Fprintf(&b, "📅 %s\n", strings.ToUpper(day))
		b.WriteString(rule("-", 30))

		var free, working []string
		for _, view := range views {
			free = append(free, view.Days[i].Free...)
			working = append(working, view.Days[i].Working...)
		}

		if len(free) > 0 {
			b.WriteString("😎 SLOBODNI:\n")
			for _, name := range free {
				emp := people[name]
				b.WriteString(personLine(name, emp.Position, emp.Phone))
			}
		} else {
			b.WriteString("   Nema slobodnih zaposlenih\n")
		}

		if len(working) > 0 {
			fmt.Fprintf(&b, "\n👷 RADI (%d):\n", len(working))
			for _, name := range working {
				b.WriteString(personLine(name, people[name].Position, ""))
			}
		}
		b.WriteString("\n")
	}

	s.logger.Debug("free employees text export rendered", "offset", offset)
	return textDocument(fmt.Sprintf("slobodni-nedelja-%d.txt", offset), &b)
}

// SalariesText renders the current salary of every employee with totals.
func (s *Service) SalariesText() *Document {
	entries := s.salaries.List()
	now := s.clock()

	var b strings.Builder
	b.WriteString("PREGLED PLATA\n")
	b.WriteString(rule("=", 30))
	b.WriteString("\n")

	if len(entries) == 0 {
		b.WriteString("Nema unetih plata.\n")
	} else {
		for _, e := range entries {
			fmt.Fprintf(&b, "👤 %s\n", e.Employee)
			fmt.Fprintf(&b, "   💰 Ukupno: %s\n", FormatRSD(e.Total))
			fmt.Fprintf(&b, "   🏦 Na račun: %s\n", FormatRSD(e.Bank))
			fmt.Fprintf(&b, "   💵 Kesh: %s\n", FormatRSD(e.Cash))
			fmt.Fprintf(&b, "   📅 Datum: %s\n\n", formatDate(e.CreatedAt))
		}

		sum := s.salaries.Summary()
		b.WriteString("📊 UKUPNO:\n")
		b.WriteString(rule("-", 20))
		fmt.Fprintf(&b, "💰 Ukupne plate: %s\n", FormatRSD(sum.Total))
		fmt.Fprintf(&b, "🏦 Ukupno na račun: %s\n", FormatRSD(sum.Bank))
		fmt.Fprintf(&b, "💵 Ukupno kesh: %s\n", FormatRSD(sum.Cash))
		fmt.Fprintf(&b, "👥 Broj zaposlenih: %d\n", sum.Count)
		fmt.Fprintf(&b, "📈 Prosečna plata: %s\n", FormatRSD(sum.Average.Round(0)))
	}
	fmt.Fprintf(&b, "\n📅 Generisano: %s\n", formatDate(now))

	return textDocument("plate-"+now.Format("2006-01-02")+".txt", &b)
}

// MonthlySalariesText renders one month's payroll grouped by department,
// followed by the employees still without a record for that month.
func (s *Service) MonthlySalariesText(year int, month time.Month) *Document {
	overview := s.salaries.MonthlyOverview(year, month)
	people := s.directory()
	now := s.clock()

	var b strings.Builder
	b.WriteString("💰 MESEČNI OBRAČUN PLATA\n")
	fmt.Fprintf(&b, "📅 %s %d\n", overview.MonthName, year)
	b.WriteString(rule("=", 40))
	b.WriteString("\n")

	if len(overview.Entries) == 0 {
		b.WriteString("⚠️ Nema unetih plata za ovaj mesec.\n\n")
	} else {
		for _, group := range overview.Departments {
			fmt.Fprintf(&b, "🏢 %s\n", strings.ToUpper(group.Name))
			b.WriteString(rule("-", len([]rune(group.Name))+5))
			for _, e := range group.Entries {
				position := e.Position
				if position == "" {
					position = "N/A"
				}
				fmt.Fprintf(&b, "👤 %s\n", e.Employee)
				fmt.Fprintf(&b, "📋 %s\n", position)
				fmt.Fprintf(&b, "💵 Ukupno: %s\n", FormatRSD(e.Total))
				fmt.Fprintf(&b, "🏦 Račun: %s\n", FormatRSD(e.Bank))
				fmt.Fprintf(&b, "💸 Keš: %s\n", FormatRSD(e.Cash))
				b.WriteString(rule("─", 25))
				b.WriteString("\n")
			}
		}

		fmt.Fprintf(&b, "📊 UKUPNO ZA %s %d\n", strings.ToUpper(overview.MonthName), year)
		b.WriteString(rule("-", 30))
		fmt.Fprintf(&b, "👥 Broj zaposlenih: %d\n", overview.Summary.Count)
		fmt.Fprintf(&b, "💵 Ukupne plate: %s\n", FormatRSD(overview.Summary.Total))
		fmt.Fprintf(&b, "🏦 Za račune: %s\n", FormatRSD(overview.Summary.Bank))
		fmt.Fprintf(&b, "💸 Potreban keš: %s\n\n", FormatRSD(overview.Summary.Cash))
	}

	if len(overview.WithoutEntry) > 0 {
		fmt.Fprintf(&b, "⚠️ BEZ OBRAČUNA (%d):\n", len(overview.WithoutEntry))
		for _, name := range overview.WithoutEntry {
			fmt.Fprintf(&b, "• %s (%s)\n", name, people[name].Position)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "📱 Generisano: %s u %s\n", formatDate(now), now.Format("15:04:05"))

	return textDocument(fmt.Sprintf("plate-%04d-%02d.txt", year, int(month)), &b)
}
