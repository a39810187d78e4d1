package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/roster-management/internal/analytics"
	"github.com/frahmantamala/roster-management/internal/core/calendar"
	"github.com/frahmantamala/roster-management/internal/report"
)

var (
	reportMonth string
	exportType  string
	exportWeek  int
	exportOut   string
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Print the workload report as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := mustLoad(cmd.Context())
		defer deps.Store.Close()

		var r analytics.Report
		if reportMonth == "" {
			r = deps.Analytics.Overall()
		} else {
			year, month, err := calendar.ParseMonth(reportMonth)
			if err != nil {
				return err
			}
			r = deps.Analytics.ForMonth(year, month)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write an export file (schedule, free, salaries, monthly, xlsx)",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps := mustLoad(cmd.Context())
		defer deps.Store.Close()

		doc, err := renderExport(deps.Reports, exportType, exportWeek, reportMonth)
		if err != nil {
			return err
		}

		path := filepath.Join(exportOut, doc.Filename)
		if err := os.WriteFile(path, doc.Body, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
		return nil
	},
}

func renderExport(reports *report.Service, kind string, week int, month string) (*report.Document, error) {
	switch kind {
	case "schedule":
		return reports.ScheduleText(week), nil
	case "free":
		return reports.FreeText(week), nil
	case "salaries":
		return reports.SalariesText(), nil
	case "monthly":
		year, m, err := calendar.ParseMonth(month)
		if err != nil {
			return nil, err
		}
		return reports.MonthlySalariesText(year, m), nil
	case "xlsx":
		return reports.ScheduleWorkbook(week)
	default:
		return nil, fmt.Errorf("unknown export type %q", kind)
	}
}

func mustLoad(ctx context.Context) *Dependencies {
	if ctx == nil {
		ctx = context.Background()
	}
	deps, err := initializeDependencies(ctx)
	if err != nil {
		log.Fatalf("failed to initialize dependencies: %v", err)
	}
	return deps
}

func init() {
	analyticsCmd.Flags().StringVar(&reportMonth, "month", "", "limit the report to a month (YYYY-MM)")

	exportCmd.Flags().StringVarP(&exportType, "type", "t", "schedule", "schedule, free, salaries, monthly or xlsx")
	exportCmd.Flags().IntVarP(&exportWeek, "week", "w", 0, "week offset relative to the current week")
	exportCmd.Flags().StringVar(&reportMonth, "month", "", "month for the monthly export (YYYY-MM)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", ".", "output directory")
}
