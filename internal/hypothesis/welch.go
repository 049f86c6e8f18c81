// Package hypothesis implements the unpaired two-sample location test of
// the pipeline: Welch's unequal-variance t-test with a Cohen's d effect
// size, so significance and practical magnitude are reported side by side.
package hypothesis

import (
	"math"

	"harestats/domain/core"
	domstats "harestats/domain/stats"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// minSampleSize is the fewest non-missing values a sample may carry and
// still admit a variance estimate.
const minSampleSize = 2

// TwoSampleTest runs Welch's t-test between two samples. Equal variances
// are never assumed; degrees of freedom come from the Welch-Satterthwaite
// approximation and the two-sided p-value from the exact Student's t
// distribution. Inputs are non-missing values only.
func TwoSampleTest(a, b []float64) (domstats.TestResult, error) {
	if len(a) < minSampleSize {
		return domstats.TestResult{}, core.NewInsufficientDataError("two-sample test", minSampleSize, len(a))
	}
	if len(b) < minSampleSize {
		return domstats.TestResult{}, core.NewInsufficientDataError("two-sample test", minSampleSize, len(b))
	}

	n1, n2 := float64(len(a)), float64(len(b))
	mean1, _ := stats.Mean(a)
	mean2, _ := stats.Mean(b)
	var1, _ := stats.SampleVariance(a)
	var2, _ := stats.SampleVariance(b)

	diff := mean1 - mean2
	se := math.Sqrt(var1/n1 + var2/n2)

	var tStat, df, p float64
	switch {
	case se == 0 && diff == 0:
		// Two constant samples at the same level: no evidence of difference.
		tStat, df, p = 0, n1+n2-2, 1
	case se == 0:
		// Constant samples at different levels: difference is exact.
		tStat, df, p = math.Inf(sign(diff)), n1+n2-2, 0
	default:
		tStat = diff / se
		df = welchSatterthwaite(var1, var2, n1, n2)
		tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
		p = 2 * tDist.CDF(-math.Abs(tStat))
	}

	d, err := EffectSize(a, b)
	if err != nil {
		return domstats.TestResult{}, err
	}

	return domstats.TestResult{
		NA:         len(a),
		NB:         len(b),
		MeanA:      mean1,
		MeanB:      mean2,
		TStatistic: tStat,
		DF:         df,
		PValue:     p,
		EffectSize: d,
	}, nil
}

// EffectSize returns Cohen's d with the pooled standard deviation,
// independent of sample size by construction.
func EffectSize(a, b []float64) (float64, error) {
	if len(a) < minSampleSize {
		return 0, core.NewInsufficientDataError("effect size", minSampleSize, len(a))
	}
	if len(b) < minSampleSize {
		return 0, core.NewInsufficientDataError("effect size", minSampleSize, len(b))
	}

	n1, n2 := float64(len(a)), float64(len(b))
	mean1, _ := stats.Mean(a)
	mean2, _ := stats.Mean(b)
	var1, _ := stats.SampleVariance(a)
	var2, _ := stats.SampleVariance(b)

	diff := mean1 - mean2
	pooledSD := math.Sqrt(((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2))
	if pooledSD == 0 {
		if diff == 0 {
			return 0, nil
		}
		return math.Inf(sign(diff)), nil
	}
	return diff / pooledSD, nil
}

// welchSatterthwaite approximates the degrees of freedom for unequal
// variances.
func welchSatterthwaite(var1, var2, n1, n2 float64) float64 {
	num := math.Pow(var1/n1+var2/n2, 2)
	den := math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1)
	return num / den
}

func sign(x float64) int {
	if x < 0 {
		return -1
	}
	return 1
}
