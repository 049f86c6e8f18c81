package stats

import (
	"fmt"
	"math"
)

// GroupSummary holds descriptive statistics for one group key, computed
// only over non-missing values.
// INVARIANTS:
// - N counts non-missing values only
// - N == 0 means the whole summary is undefined, never zeroed
// - StdDev uses the sample (n-1) formula and needs N >= 2 to be defined
type GroupSummary struct {
	Key           string  `json:"key"`
	N             int     `json:"n"`
	Mean          float64 `json:"mean"`
	Median        float64 `json:"median"`
	StdDev        float64 `json:"std_dev"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Defined       bool    `json:"defined"`        // false when N == 0
	StdDevDefined bool    `json:"stddev_defined"` // false when N < 2
}

// Undefined returns the explicit marker for a group with no usable values.
func Undefined(key string) GroupSummary {
	return GroupSummary{
		Key:    key,
		Mean:   math.NaN(),
		Median: math.NaN(),
		StdDev: math.NaN(),
		Min:    math.NaN(),
		Max:    math.NaN(),
	}
}

// TestResult holds the outcome of an unpaired two-sample location test.
type TestResult struct {
	NA         int     `json:"n_a"`
	NB         int     `json:"n_b"`
	MeanA      float64 `json:"mean_a"`
	MeanB      float64 `json:"mean_b"`
	TStatistic float64 `json:"t_statistic"`
	DF         float64 `json:"df"`          // Welch-Satterthwaite degrees of freedom
	PValue     float64 `json:"p_value"`     // two-sided
	EffectSize float64 `json:"effect_size"` // Cohen's d, pooled SD
}

// MeanDifference returns the point estimate of the location difference.
func (r TestResult) MeanDifference() float64 {
	return r.MeanA - r.MeanB
}

// String renders the result the way it is quoted in prose.
func (r TestResult) String() string {
	return fmt.Sprintf("t(%.2f) = %.3f, p = %.4g, d = %.3f (n1=%d, n2=%d)",
		r.DF, r.TStatistic, r.PValue, r.EffectSize, r.NA, r.NB)
}

// RegressionResult holds an ordinary least-squares fit plus the Pearson
// correlation over the identical pairwise-complete rows.
type RegressionResult struct {
	Slope        float64 `json:"slope"`
	Intercept    float64 `json:"intercept"`
	RSquared     float64 `json:"r_squared"`
	Correlation  float64 `json:"correlation"`
	CorrelationP float64 `json:"correlation_p"` // two-sided
	N            int     `json:"n"`             // pairwise-complete rows used
}

// String renders the fit the way it is quoted in prose.
func (r RegressionResult) String() string {
	return fmt.Sprintf("y = %.3fx + %.3f (R2 = %.3f, r = %.3f, p = %.4g, n = %d)",
		r.Slope, r.Intercept, r.RSquared, r.Correlation, r.CorrelationP, r.N)
}
