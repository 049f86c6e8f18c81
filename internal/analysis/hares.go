// Package analysis wires the generic pipeline into the concrete
// capture-recapture report: annual juvenile trap counts, juvenile weight
// summaries by sex and by site, a Welch test of male vs female weight,
// and the hind foot length / weight association.
package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"harestats/domain/core"
	domstats "harestats/domain/stats"
	"harestats/domain/table"
	"harestats/internal"
	"harestats/internal/aggregate"
	"harestats/internal/association"
	"harestats/internal/hypothesis"
	"harestats/internal/transform"
)

// Field names of the capture-recapture dataset.
const (
	FieldDate     core.FieldName = "date"
	FieldAge      core.FieldName = "age"
	FieldSex      core.FieldName = "sex"
	FieldGrid     core.FieldName = "grid"
	FieldWeight   core.FieldName = "weight"
	FieldHindFoot core.FieldName = "hindft"

	FieldYear  core.FieldName = "year"
	FieldMonth core.FieldName = "month"
)

// Categorical labels. Codes outside the mapping fall through to the
// declared defaults rather than disappearing.
const (
	LabelMale       = "Male"
	LabelFemale     = "Female"
	LabelUnknownSex = "Unknown"

	ageJuvenile = "j"
)

// SexLabels maps the single-letter sex codes to report labels.
var SexLabels = map[string]string{
	"m": LabelMale,
	"f": LabelFemale,
}

// GridLabels maps trapping grid codes to full site names.
var GridLabels = map[string]string{
	"bonrip": "Bonanza Riparian",
	"bonmat": "Bonanza Mature",
	"bonbta": "Bonanza Black Spruce",
}

// SchemaHints declares the column types the loader should not infer.
// Weight and hind foot length must be numeric-with-missing even when a
// column is sparse enough to defeat inference.
func SchemaHints() map[core.FieldName]table.ValueType {
	return map[core.FieldName]table.ValueType{
		FieldDate:     table.ValueTypeTimestamp,
		FieldAge:      table.ValueTypeString,
		FieldSex:      table.ValueTypeString,
		FieldGrid:     table.ValueTypeString,
		FieldWeight:   table.ValueTypeNumeric,
		FieldHindFoot: table.ValueTypeNumeric,
	}
}

// Report collects the named results the rendering layer consumes. A nil
// section means that analysis was undefined for this dataset (too little
// data); the run as a whole still succeeds.
type Report struct {
	TableID       core.TableID               `json:"table_id"`
	JuvenileRows  int                        `json:"juvenile_rows"`
	AnnualCounts  aggregate.Counts           `json:"annual_counts"`
	WeightBySex   []domstats.GroupSummary    `json:"weight_by_sex"`
	WeightBySite  []domstats.GroupSummary    `json:"weight_by_site"`
	WeightSexTest *domstats.TestResult       `json:"weight_sex_test,omitempty"`
	HindFootFit   *domstats.RegressionResult `json:"hind_foot_fit,omitempty"`
}

// Service runs the juvenile hare analyses over a loaded table.
type Service struct {
	logger *internal.Logger
}

// NewService creates an analysis service.
func NewService(logger *internal.Logger) *Service {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Service{logger: logger.Named("analysis")}
}

// Prepare derives the year and month columns, recodes sex and grid to
// report labels, and filters to juvenile captures. Each step yields a new
// table; the loaded table is left untouched for auditing.
func (s *Service) Prepare(t table.Table) (table.Table, error) {
	t = transform.DeriveYear(t, FieldDate, FieldYear)
	t = transform.DeriveMonth(t, FieldDate, FieldMonth)

	t, err := transform.Recode(t, FieldSex, SexLabels, LabelUnknownSex)
	if err != nil {
		return table.Table{}, err
	}
	// Unmapped grids keep their raw code; new grids should stay visible,
	// not collapse into one bucket.
	t, err = transform.Recode(t, FieldGrid, GridLabels, "")
	if err != nil {
		return table.Table{}, err
	}

	juveniles := transform.Filter(t, "age=j", func(r table.Record) bool {
		age, ok := r.Get(FieldAge).Text()
		return ok && age == ageJuvenile
	})

	s.logger.Info("prepared table %s: %d juvenile rows of %d", juveniles.ID(), juveniles.Len(), t.Len())
	return juveniles, nil
}

// Run executes the independent analyses over a prepared table. The three
// sections share no state, so they run concurrently; an insufficient-data
// outcome leaves its section nil instead of failing the report.
func (s *Service) Run(ctx context.Context, juveniles table.Table) (*Report, error) {
	report := &Report{
		TableID:      juveniles.ID(),
		JuvenileRows: juveniles.Len(),
	}

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		counts, err := aggregate.GroupCount(juveniles, FieldYear)
		if err != nil {
			return err
		}
		report.AnnualCounts = counts
		return nil
	})

	g.Go(func() error {
		bySex, err := aggregate.SummaryStats(juveniles, FieldSex, FieldWeight)
		if err != nil {
			return err
		}
		report.WeightBySex = bySex

		bySite, err := aggregate.SummaryStats(juveniles, FieldGrid, FieldWeight)
		if err != nil {
			return err
		}
		report.WeightBySite = bySite

		test, err := s.weightSexTest(juveniles)
		if err != nil {
			if core.IsInsufficientDataError(err) {
				s.logger.Warn("weight-by-sex test undefined: %v", err)
				return nil
			}
			return err
		}
		report.WeightSexTest = test
		return nil
	})

	g.Go(func() error {
		fit, err := s.hindFootFit(juveniles)
		if err != nil {
			if core.IsInsufficientDataError(err) {
				s.logger.Warn("hind foot fit undefined: %v", err)
				return nil
			}
			return err
		}
		report.HindFootFit = fit
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

// weightSexTest compares male and female juvenile weights with Welch's
// t-test and Cohen's d.
func (s *Service) weightSexTest(t table.Table) (*domstats.TestResult, error) {
	male := numericWhere(t, FieldSex, LabelMale, FieldWeight)
	female := numericWhere(t, FieldSex, LabelFemale, FieldWeight)

	res, err := hypothesis.TwoSampleTest(male, female)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// hindFootFit regresses weight on hind foot length over pairwise-complete
// rows. Hind foot length is the predictor, matching the narrative intent
// of the source report.
func (s *Service) hindFootFit(t table.Table) (*domstats.RegressionResult, error) {
	hindft, err := t.Column(FieldHindFoot)
	if err != nil {
		return nil, err
	}
	weight, err := t.Column(FieldWeight)
	if err != nil {
		return nil, err
	}

	xs, ys := table.CompletePairs(hindft, weight)
	fit, err := association.LinearFit(xs, ys)
	if err != nil {
		return nil, err
	}
	return &fit, nil
}

// numericWhere collects the non-missing values of valueField over rows
// whose keyField equals label.
func numericWhere(t table.Table, keyField core.FieldName, label string, valueField core.FieldName) []float64 {
	var out []float64
	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		if key, ok := r.Get(keyField).Text(); !ok || key != label {
			continue
		}
		if x, ok := r.Get(valueField).Numeric(); ok {
			out = append(out, x)
		}
	}
	return out
}
