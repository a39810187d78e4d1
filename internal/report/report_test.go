package report_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/frahmantamala/roster-management/internal/analytics"
	"github.com/frahmantamala/roster-management/internal/core/calendar"
	"github.com/frahmantamala/roster-management/internal/core/roster"
	"github.com/frahmantamala/roster-management/internal/employee"
	"github.com/frahmantamala/roster-management/internal/kvstore"
	"github.com/frahmantamala/roster-management/internal/report"
	"github.com/frahmantamala/roster-management/internal/salary"
	"github.com/frahmantamala/roster-management/internal/schedule"
	"github.com/frahmantamala/roster-management/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestReport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Suite")
}

var _ = Describe("FormatRSD", func() {
	It("groups thousands the Serbian way", func() {
		Expect(report.FormatRSD(decimal.NewFromInt(80000))).To(Equal("80.000 RSD"))
		Expect(report.FormatRSD(decimal.NewFromInt(500))).To(Equal("500 RSD"))
		Expect(report.FormatRSD(decimal.RequireFromString("1500.5"))).To(HaveSuffix(",50 RSD"))
	})
})

var _ = Describe("Report Service", func() {
	var (
		ctx       context.Context
		logger    *slog.Logger
		clock     calendar.Clock
		store     kvstore.Store
		staff     *employee.Service
		schedules *schedule.Service
		payroll   *salary.Service
		service   *report.Service
		register  func(name, position, department, phone string)
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		clock = calendar.FixedClock(time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC))
		store = kvstore.NewMemoryStore()

		layout, err := roster.NewLayout([]string{"restaurant"})
		Expect(err).NotTo(HaveOccurred())

		staff = employee.NewService(employee.NewRepository(store), nil, logger)
		Expect(staff.Load(ctx)).To(Succeed())
		schedules = schedule.NewService(schedule.NewRepository(store), staff, schedule.Settings{Layout: layout, Clock: clock}, logger)
		Expect(schedules.Load(ctx)).To(Succeed())
		payroll = salary.NewService(salary.NewRepository(store), staff, logger)
		Expect(payroll.Load(ctx)).To(Succeed())

		register = func(name, position, department, phone string) {
			_, err := staff.Create(ctx, employee.CreateEmployeeDTO{Name: name, Position: position, Department: department, Phone: phone})
			Expect(err).NotTo(HaveOccurred())
		}
		register("Ana", "Kuvar", "kitchen", "064 111 222")
		register("Marko", "Konobar", "restaurant", "")
		register("Jelena", "Spasilac", "pool", "")

		stats := analytics.NewService(staff, schedules, clock, logger)
		service = report.NewService(staff, schedules, payroll, stats, clock, logger)
	})

	Describe("ScheduleText", func() {
		BeforeEach(func() {
			Expect(schedules.Assign(ctx, 0, roster.Kitchen, "Ponedeljak", "8-16", "Ana")).To(Succeed())
			Expect(schedules.AssignToPosition(ctx, 0, roster.Restaurant, "Utorak", "morning-waiter", "Marko")).To(Succeed())
		})

		It("lists assigned slots per day with contacts and statistics", func() {
			doc := service.ScheduleText(0)
			Expect(doc.Filename).To(Equal("raspored-nedelja-0.txt"))
			Expect(doc.ContentType).To(Equal(report.ContentTypeText))

			body := string(doc.Body)
			Expect(body).To(HavePrefix("RASPORED SMENA - NEDELJA TRENUTNA\n"))
			Expect(body).To(ContainSubstring("📅 PONEDELJAK\n"))
			Expect(body).To(ContainSubstring("⏰ Kuhinja 8-16h:\n   • Ana (Kuvar) - 📞 064 111 222\n"))
			Expect(body).To(ContainSubstring("⏰ Restoran Konobar 1 (8-16h):\n   • Marko (Konobar)\n"))
			Expect(body).To(ContainSubstring("📅 NEDELJA\n" + "------------------------------\n   Nema zakazanih smena"))
			Expect(body).To(ContainSubstring("Ukupno zaposlenih: 3\nRaspoređeno: 2\nSlobodno: 1\n"))
		})

		It("names other weeks by their offset", func() {
			doc := service.ScheduleText(-2)
			Expect(doc.Filename).To(Equal("raspored-nedelja--2.txt"))
			Expect(string(doc.Body)).To(HavePrefix("RASPORED SMENA - NEDELJA -2\n"))
			Expect(string(doc.Body)).To(ContainSubstring("Raspoređeno: 0\n"))
			Expect(string(service.ScheduleText(1).Body)).To(ContainSubstring("NEDELJA +1"))
		})
	})

	Describe("FreeText", func() {
		It("splits each department's staff into free and working", func() {
			Expect(schedules.Assign(ctx, 0, roster.Kitchen, "Ponedeljak", "8-16", "Ana")).To(Succeed())

			doc := service.FreeText(0)
			Expect(doc.Filename).To(Equal("slobodni-nedelja-0.txt"))
			body := string(doc.Body)
			Expect(body).To(ContainSubstring("📅 PONEDELJAK\n------------------------------\n😎 SLOBODNI:\n   • Marko (Konobar)\n   • Jelena (Spasilac)\n\n👷 RADI (1):\n   • Ana (Kuvar)\n"))
			Expect(body).To(ContainSubstring("📅 UTORAK\n------------------------------\n😎 SLOBODNI:\n   • Ana (Kuvar) - 📞 064 111 222\n"))
		})
	})

	Describe("SalariesText", func() {
		It("reports an empty ledger", func() {
			doc := service.SalariesText()
			Expect(doc.Filename).To(Equal("plate-2026-10-16.txt"))
			Expect(string(doc.Body)).To(ContainSubstring("Nema unetih plata.\n"))
			Expect(string(doc.Body)).To(ContainSubstring("📅 Generisano: 16.10.2026.\n"))
		})

		It("lists salaries with totals", func() {
			_, err := payroll.SetSalary(ctx, salary.SalaryDTO{Employee: "Ana", Total: "80000", Bank: "50000"})
			Expect(err).NotTo(HaveOccurred())
			_, err = payroll.SetSalary(ctx, salary.SalaryDTO{Employee: "Marko", Total: "60000", Bank: "60000"})
			Expect(err).NotTo(HaveOccurred())

			body := string(service.SalariesText().Body)
			Expect(body).To(ContainSubstring("👤 Ana\n   💰 Ukupno: 80.000 RSD\n   🏦 Na račun: 50.000 RSD\n   💵 Kesh: 30.000 RSD\n"))
			Expect(body).To(ContainSubstring("💰 Ukupne plate: 140.000 RSD\n"))
			Expect(body).To(ContainSubstring("💵 Ukupno kesh: 30.000 RSD\n"))
			Expect(body).To(ContainSubstring("👥 Broj zaposlenih: 2\n"))
			Expect(body).To(ContainSubstring("📈 Prosečna plata: 70.000 RSD\n"))
		})
	})

	Describe("MonthlySalariesText", func() {
		It("groups the month by department and lists who is missing", func() {
			_, err := payroll.SetMonthlySalary(ctx, salary.MonthlySalaryDTO{Employee: "Ana", Month: "2026-10", Total: "80000", Bank: "50000"})
			Expect(err).NotTo(HaveOccurred())

			doc := service.MonthlySalariesText(2026, time.October)
			Expect(doc.Filename).To(Equal("plate-2026-10.txt"))
			body := string(doc.Body)
			Expect(body).To(HavePrefix("💰 MESEČNI OBRAČUN PLATA\n📅 Oktobar 2026\n"))
			Expect(body).To(ContainSubstring("🏢 KUHINJA\n------------\n👤 Ana\n📋 Kuvar\n💵 Ukupno: 80.000 RSD\n"))
			Expect(body).To(ContainSubstring("📊 UKUPNO ZA OKTOBAR 2026\n"))
			Expect(body).To(ContainSubstring("💸 Potreban keš: 30.000 RSD\n"))
			Expect(body).To(ContainSubstring("⚠️ BEZ OBRAČUNA (2):\n• Marko (Konobar)\n• Jelena (Spasilac)\n"))
		})

		It("says so when the month has no records", func() {
			body := string(service.MonthlySalariesText(2026, time.November).Body)
			Expect(body).To(ContainSubstring("⚠️ Nema unetih plata za ovaj mesec."))
			Expect(body).NotTo(ContainSubstring("UKUPNO ZA"))
			Expect(body).To(ContainSubstring("⚠️ BEZ OBRAČUNA (3):"))
		})
	})

	Describe("ScheduleWorkbook", func() {
		It("renders the week grid and the workload sheet", func() {
			Expect(schedules.Assign(ctx, 0, roster.Kitchen, "Ponedeljak", "8-16", "Ana")).To(Succeed())
			Expect(schedules.Assign(ctx, 0, roster.Kitchen, "Utorak", "14-22", "Ana")).To(Succeed())

			doc, err := service.ScheduleWorkbook(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Filename).To(Equal("raspored-nedelja-0.xlsx"))
			Expect(doc.ContentType).To(Equal(report.ContentTypeXLSX))

			f, err := excelize.OpenReader(bytes.NewReader(doc.Body))
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()

			Expect(f.GetSheetList()).To(Equal([]string{report.ScheduleSheet, report.WorkloadSheet}))

			title, err := f.GetCellValue(report.ScheduleSheet, "A1")
			Expect(err).NotTo(HaveOccurred())
			Expect(title).To(HavePrefix("RASPORED SMENA - NEDELJA TRENUTNA"))

			header, err := f.GetCellValue(report.ScheduleSheet, "C3")
			Expect(err).NotTo(HaveOccurred())
			Expect(header).To(Equal("Ponedeljak 12.okt"))

			// Kitchen rows come first, starting with the first default shift.
			dept, _ := f.GetCellValue(report.ScheduleSheet, "A4")
			shift, _ := f.GetCellValue(report.ScheduleSheet, "B4")
			monday, _ := f.GetCellValue(report.ScheduleSheet, "C4")
			Expect([]string{dept, shift, monday}).To(Equal([]string{"Kuhinja", "8-16", "Ana"}))

			name, _ := f.GetCellValue(report.WorkloadSheet, "A2")
			hours, _ := f.GetCellValue(report.WorkloadSheet, "D2")
			Expect(name).To(Equal("Ana"))
			Expect(hours).To(Equal("16"))
		})
	})

	Describe("Handler", func() {
		var router *chi.Mux

		BeforeEach(func() {
			router = chi.NewRouter()
			router.Route("/export", report.NewHandler(&transport.BaseHandler{Logger: logger}, service).Routes)
		})

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			return w
		}

		It("serves text exports as attachments", func() {
			w := get("/export/schedule.txt?week=1")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal(report.ContentTypeText))
			Expect(w.Header().Get("Content-Disposition")).To(Equal(`attachment; filename="raspored-nedelja-1.txt"`))
			Expect(w.Body.String()).To(HavePrefix("RASPORED SMENA - NEDELJA +1"))

			Expect(get("/export/free.txt").Code).To(Equal(http.StatusOK))
			Expect(get("/export/salaries.txt").Code).To(Equal(http.StatusOK))
			Expect(get("/export/monthly-salaries.txt?month=2026-10").Code).To(Equal(http.StatusOK))
		})

		It("serves the workbook", func() {
			w := get("/export/schedule.xlsx")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal(report.ContentTypeXLSX))
			Expect(w.Body.Len()).To(BeNumerically(">", 0))
		})

		It("rejects malformed parameters", func() {
			Expect(get("/export/schedule.txt?week=abc").Code).To(Equal(http.StatusBadRequest))
			Expect(get("/export/schedule.xlsx?week=x").Code).To(Equal(http.StatusBadRequest))
			Expect(get("/export/monthly-salaries.txt").Code).To(Equal(http.StatusBadRequest))
			Expect(get("/export/monthly-salaries.txt?month=oct").Code).To(Equal(http.StatusBadRequest))
		})
	})
})
