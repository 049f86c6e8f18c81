package table

// Numeric extracts the non-missing numeric payloads of a column, in row
// order. Missing and non-numeric cells are dropped, never zero-filled.
func Numeric(values []Value) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if x, ok := v.Numeric(); ok {
			out = append(out, x)
		}
	}
	return out
}

// CompletePairs extracts the (x, y) pairs where both cells are
// non-missing numeric, in row order. Regression and correlation both use
// this single filter so their results cover the identical rows.
func CompletePairs(xs, ys []Value) ([]float64, []float64) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	px := make([]float64, 0, n)
	py := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		x, okX := xs[i].Numeric()
		y, okY := ys[i].Numeric()
		if okX && okY {
			px = append(px, x)
			py = append(py, y)
		}
	}
	return px, py
}
