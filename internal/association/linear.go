// Package association fits the linear relationship between two numeric
// variables: an ordinary least-squares line plus the Pearson correlation
// with its t-distribution significance. Both computations run over the
// same pairwise-complete rows so the two results are directly comparable.
package association

import (
	"fmt"
	"math"

	"harestats/domain/core"
	domstats "harestats/domain/stats"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// minPairs is the fewest complete (x, y) pairs a fit needs.
const minPairs = 2

// LinearFit performs OLS of ys on xs. Inputs are pairwise-complete
// already (see table.CompletePairs); callers pass the predictor first.
func LinearFit(xs, ys []float64) (domstats.RegressionResult, error) {
	if len(xs) != len(ys) {
		return domstats.RegressionResult{}, fmt.Errorf("paired samples differ in length: %d vs %d", len(xs), len(ys))
	}
	if len(xs) < minPairs {
		return domstats.RegressionResult{}, core.NewInsufficientDataError("linear fit", minPairs, len(xs))
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	r2 := rSquared(xs, ys, intercept, slope)
	r, p := Correlation(xs, ys)

	return domstats.RegressionResult{
		Slope:        slope,
		Intercept:    intercept,
		RSquared:     r2,
		Correlation:  r,
		CorrelationP: p,
		N:            len(xs),
	}, nil
}

// Correlation returns the Pearson product-moment coefficient and its
// two-sided significance under the standard t-based test with n-2
// degrees of freedom.
func Correlation(xs, ys []float64) (float64, float64) {
	r := stat.Correlation(xs, ys, nil)
	n := float64(len(xs))

	if n <= 2 || math.IsNaN(r) {
		return r, math.NaN()
	}
	if math.Abs(r) >= 1 {
		// A perfect fit leaves no residual variance to test against.
		return r, 0
	}

	t := r * math.Sqrt((n-2)/(1-r*r))
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 2}
	return r, 2 * tDist.CDF(-math.Abs(t))
}

// rSquared is the coefficient of determination, 1 - SSres/SStot.
func rSquared(xs, ys []float64, intercept, slope float64) float64 {
	meanY := stat.Mean(ys, nil)

	var ssRes, ssTot float64
	for i := range xs {
		pred := intercept + slope*xs[i]
		ssRes += (ys[i] - pred) * (ys[i] - pred)
		ssTot += (ys[i] - meanY) * (ys[i] - meanY)
	}
	if ssTot == 0 {
		// A constant response is either fit exactly or not at all.
		if ssRes == 0 {
			return 1
		}
		return math.NaN()
	}
	return 1 - ssRes/ssTot
}
