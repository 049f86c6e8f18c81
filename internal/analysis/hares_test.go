package analysis

import (
	"context"
	"testing"

	"harestats/internal/testkit"
)

func TestGoldStandard_ReportRecoversGeneratorParameters(t *testing.T) {
	cfg := testkit.DefaultCaptureConfig()
	cfg.Rows = 2000
	cfg.Seed = 42
	cfg.MaleMeanWeight = 1000
	cfg.FemaleMeanWeight = 850

	gen := testkit.NewCaptureGenerator(cfg)
	tbl := gen.Table()

	svc := NewService(nil)
	juveniles, err := svc.Prepare(tbl)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}

	report, err := svc.Run(context.Background(), juveniles)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// Every generated year appears; no fabricated gap-filling.
	if got := len(report.AnnualCounts.ByKey); got != cfg.Years {
		t.Fatalf("expected %d capture years, got %d (%v)", cfg.Years, got, report.AnnualCounts.Keys())
	}
	if total := report.AnnualCounts.Total() + report.AnnualCounts.Skipped; total != report.JuvenileRows {
		t.Fatalf("annual counts reconcile to %d, want %d", total, report.JuvenileRows)
	}

	// Group means land near the configured levels.
	for _, s := range report.WeightBySex {
		switch s.Key {
		case LabelMale:
			if !s.Defined || s.Mean < 950 || s.Mean > 1050 {
				t.Fatalf("male mean %.1f outside configured band", s.Mean)
			}
		case LabelFemale:
			if !s.Defined || s.Mean < 800 || s.Mean > 900 {
				t.Fatalf("female mean %.1f outside configured band", s.Mean)
			}
		}
	}

	// A 150 g separation at sd 120 is detectable and practically large.
	if report.WeightSexTest == nil {
		t.Fatal("expected a defined weight-by-sex test")
	}
	if p := report.WeightSexTest.PValue; p > 0.001 {
		t.Fatalf("expected significant sex difference, p=%.4g", p)
	}
	if d := report.WeightSexTest.EffectSize; d < 0.5 {
		t.Fatalf("expected at least a medium effect size, d=%.3f", d)
	}

	// The fit recovers the generator's hind foot / weight slope.
	if report.HindFootFit == nil {
		t.Fatal("expected a defined hind foot fit")
	}
	slope := report.HindFootFit.Slope
	if slope < cfg.FootSlope-2 || slope > cfg.FootSlope+2 {
		t.Fatalf("expected slope near %.1f, got %.3f", cfg.FootSlope, slope)
	}
	if r := report.HindFootFit.Correlation; r < 0.7 {
		t.Fatalf("expected strong positive correlation, r=%.3f", r)
	}
}

func TestPrepareFiltersAndRelabels(t *testing.T) {
	cfg := testkit.DefaultCaptureConfig()
	cfg.Rows = 300
	cfg.Seed = 7

	tbl := testkit.NewCaptureGenerator(cfg).Table()
	svc := NewService(nil)

	juveniles, err := svc.Prepare(tbl)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if juveniles.Len() == 0 || juveniles.Len() >= tbl.Len() {
		t.Fatalf("expected a strict juvenile subset, got %d of %d", juveniles.Len(), tbl.Len())
	}

	seen := map[string]bool{}
	for i := 0; i < juveniles.Len(); i++ {
		r := juveniles.Row(i)
		if age, _ := r.Get(FieldAge).Text(); age != ageJuvenile {
			t.Fatalf("row %d: non-juvenile age %q survived the filter", i, age)
		}
		sex, _ := r.Get(FieldSex).Text()
		seen[sex] = true
		switch sex {
		case LabelMale, LabelFemale, LabelUnknownSex:
		default:
			t.Fatalf("row %d: unexpected sex label %q", i, sex)
		}
	}
	if !seen[LabelUnknownSex] {
		t.Fatal("expected undetermined sex codes to recode to the fallback label")
	}

	// The source table is untouched; lineage records each step.
	if tbl.Schema().Has(FieldYear) {
		t.Fatal("prepare mutated the input schema")
	}
	steps := juveniles.Lineage()
	if steps[0].Op != "load" || steps[len(steps)-1].Op != "filter" {
		t.Fatalf("unexpected lineage %v", steps)
	}
}

func TestRunSurvivesInsufficientData(t *testing.T) {
	cfg := testkit.DefaultCaptureConfig()
	cfg.Rows = 3
	cfg.Seed = 1
	cfg.MissingRate = 1.0 // every measurement missing

	tbl := testkit.NewCaptureGenerator(cfg).Table()
	svc := NewService(nil)

	juveniles, err := svc.Prepare(tbl)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}

	report, err := svc.Run(context.Background(), juveniles)
	if err != nil {
		t.Fatalf("run should degrade, not fail: %v", err)
	}
	if report.WeightSexTest != nil {
		t.Fatal("expected the sex test to be undefined")
	}
	if report.HindFootFit != nil {
		t.Fatal("expected the fit to be undefined")
	}
}
