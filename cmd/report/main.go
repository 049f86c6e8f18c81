package main

import (
	"context"
	"fmt"
	"os"

	"harestats/adapters/tabular"
	domstats "harestats/domain/stats"
	"harestats/internal"
	"harestats/internal/analysis"
	"harestats/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; the environment wins when both are present.
	if err := godotenv.Load(); err != nil {
		internal.DefaultLogger.Debug("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		internal.DefaultLogger.Error("config: %v", err)
		os.Exit(1)
	}
	logger := internal.NewLogger(cfg.Log.Level)

	ctx := context.Background()

	reader := tabular.NewReaderWithHints(analysis.SchemaHints())
	loaded, err := reader.Read(ctx, cfg.Data.Path)
	if err != nil {
		logger.Error("load: %v", err)
		os.Exit(1)
	}

	service := analysis.NewService(logger)
	juveniles, err := service.Prepare(loaded)
	if err != nil {
		logger.Error("prepare: %v", err)
		os.Exit(1)
	}

	report, err := service.Run(ctx, juveniles)
	if err != nil {
		logger.Error("analysis: %v", err)
		os.Exit(1)
	}

	logReport(logger, report)
}

// logReport emits the numeric results. Rendering tables and figures from
// them belongs to a separate presentation layer.
func logReport(logger *internal.Logger, r *analysis.Report) {
	logger.Info("table %s: %d juvenile capture rows", r.TableID, r.JuvenileRows)

	logger.Info("annual juvenile trap counts (%d rows skipped for missing year):", r.AnnualCounts.Skipped)
	for _, year := range r.AnnualCounts.Keys() {
		logger.Info("  %s: %d", year, r.AnnualCounts.ByKey[year])
	}

	logger.Info("juvenile weight by sex:")
	for _, s := range r.WeightBySex {
		if !s.Defined {
			logger.Info("  %s: no measured weights", s.Key)
			continue
		}
		logger.Info("  %s: n=%d mean=%.1f median=%.1f sd=%s min=%.1f max=%.1f",
			s.Key, s.N, s.Mean, s.Median, stddevOrDash(s), s.Min, s.Max)
	}

	logger.Info("juvenile weight by site:")
	for _, s := range r.WeightBySite {
		if !s.Defined {
			logger.Info("  %s: no measured weights", s.Key)
			continue
		}
		logger.Info("  %s: n=%d mean=%.1f median=%.1f sd=%s min=%.1f max=%.1f",
			s.Key, s.N, s.Mean, s.Median, stddevOrDash(s), s.Min, s.Max)
	}

	if r.WeightSexTest != nil {
		logger.Info("male vs female weight: %s, mean difference %.1f g",
			r.WeightSexTest, r.WeightSexTest.MeanDifference())
	} else {
		logger.Warn("male vs female weight test: undefined (insufficient data)")
	}

	if r.HindFootFit != nil {
		logger.Info("weight ~ hind foot length: %s", r.HindFootFit)
	} else {
		logger.Warn("weight ~ hind foot length: undefined (insufficient data)")
	}
}

func stddevOrDash(s domstats.GroupSummary) string {
	if !s.StdDevDefined {
		return "-"
	}
	return fmt.Sprintf("%.1f", s.StdDev)
}
