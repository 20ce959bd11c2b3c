package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/guiaturistica/reportes-api/internal/config"
	"github.com/guiaturistica/reportes-api/internal/database"
	"github.com/guiaturistica/reportes-api/internal/models"
	"github.com/guiaturistica/reportes-api/internal/repository"
	"github.com/guiaturistica/reportes-api/internal/services"
)

func newTypesCmd() *cobra.Command {
	var admin bool
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the report types",
		RunE: func(cmd *cobra.Command, args []string) error {
			reports := services.NewReportService(nil, services.ReportSettings{})
			for _, t := range reports.Catalog(admin) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", t, t.Title())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&admin, "admin", true, "List the types available to administrators")
	return cmd
}

type RenderCmd struct {
	req         models.ReportRequest
	format      string
	out         string
	caller      string
	admin       bool
	recordsDir  string
	databaseURL string
	engine      string
	maxWindows  int
	currency    string
	noSummary   bool
	noTables    bool
	noCharts    bool
	noRecs      bool
}

func newRenderCmd() *cobra.Command {
	rc := &RenderCmd{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Build a report and write it to a file",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar((*string)(&rc.req.ReportType), "type", string(models.ReportGeneralSummary), "Report type")
	cmd.Flags().StringVar(&rc.req.StartDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&rc.req.EndDate, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&rc.req.ActorFilter, "user", "", "User id filter")
	cmd.Flags().StringVar(&rc.req.LocationFilter, "city", "", "City id filter")
	cmd.Flags().StringVar(&rc.req.CountryFilter, "country", "", "Country filter")
	cmd.Flags().StringVar(&rc.format, "format", "pdf", "Output format (pdf, xlsx, json)")
	cmd.Flags().StringVar(&rc.out, "out", ".", "Output directory")
	cmd.Flags().StringVar(&rc.caller, "caller", "", "Caller user id")
	cmd.Flags().BoolVar(&rc.admin, "admin", true, "Build as an administrator")
	cmd.Flags().StringVar(&rc.recordsDir, "records", os.Getenv("RECORDS_DIR"), "Directory of JSON dumps")
	cmd.Flags().StringVar(&rc.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Hosted store connection string")
	cmd.Flags().StringVar(&rc.engine, "engine", config.EngineGofpdf, "Document engine (gofpdf, wkhtmltopdf)")
	cmd.Flags().IntVar(&rc.maxWindows, "windows", 6, "Maximum number of trend windows")
	cmd.Flags().StringVar(&rc.currency, "currency", "€", "Currency symbol")
	cmd.Flags().BoolVar(&rc.noSummary, "no-summary", false, "Skip the summary section")
	cmd.Flags().BoolVar(&rc.noTables, "no-tables", false, "Skip the table section")
	cmd.Flags().BoolVar(&rc.noCharts, "no-charts", false, "Skip the chart section")
	cmd.Flags().BoolVar(&rc.noRecs, "no-recommendations", false, "Skip the recommendations section")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (rc *RenderCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	target, ok := models.TargetFromFormat(rc.format)
	if !ok {
		return fmt.Errorf("unsupported format %q (pdf, xlsx, json)", rc.format)
	}
	params, err := rc.req.ToParams(rc.caller, rc.admin)
	if err != nil {
		return err
	}

	cfg := &config.Config{
		DatabaseURL:     rc.databaseURL,
		RecordsDir:      rc.recordsDir,
		ReportMaxWindow: rc.maxWindows,
		ReportCurrency:  rc.currency,
		DocumentEngine:  rc.engine,
		WkhtmltopdfPath: os.Getenv("WKHTMLTOPDF_PATH"),
	}
	if err := cfg.ValidateSource(); err != nil {
		return err
	}

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		if db, err = database.Connect(cfg.DatabaseURL, database.Options{Environment: os.Getenv("ENVIRONMENT")}); err != nil {
			return err
		}
	}
	repos := repository.NewRepositories(db, cfg.RecordsDir, repository.BreakerSettings{Name: "reportctl"})

	reports := services.NewReportService(repos.Records, services.ReportSettings{
		MaxWindows: cfg.ReportMaxWindow,
		Currency:   cfg.ReportCurrency,
	})
	exporter := services.NewExportService(reports, os.Getenv("APP_TITLE"), services.Renderers(cfg)...)

	options := models.RenderOptions{
		IncludeSummary:         !rc.noSummary,
		IncludeTables:          !rc.noTables,
		IncludeCharts:          !rc.noCharts,
		IncludeRecommendations: !rc.noRecs,
	}
	rendered, err := exporter.Export(ctx, params, options, target)
	if err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}

	if err := os.MkdirAll(rc.out, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(rc.out, rendered.Filename)
	if err := os.WriteFile(path, rendered.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
