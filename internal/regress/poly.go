// Package regress fits polynomial ridge-regression models.
package regress

// Terms lists every monomial of total degree <= degree over n inputs.
// Each term is the sorted list of input indices multiplied together; the bias
// term is the empty list. Terms are ordered by degree, then lexicographically.
func Terms(n, degree int) [][]int {
	terms := [][]int{{}}
	for d := 1; d <= degree; d++ {
		terms = appendCombinations(terms, nil, 0, n, d)
	}
	return terms
}

func appendCombinations(out [][]int, prefix []int, start, n, remaining int) [][]int {
	if remaining == 0 {
		term := make([]int, len(prefix))
		copy(term, prefix)
		return append(out, term)
	}
	for i := start; i < n; i++ {
		out = appendCombinations(out, append(prefix, i), i, n, remaining-1)
	}
	return out
}

// Expand evaluates every term on the input row.
func Expand(x []float64, terms [][]int) []float64 {
	out := make([]float64, len(terms))
	for i, term := range terms {
		v := 1.0
		for _, idx := range term {
			v *= x[idx]
		}
		out[i] = v
	}
	return out
}

// PolynomialFeatures expands every row of x up to the given degree.
func PolynomialFeatures(x [][]float64, degree int) [][]float64 {
	if len(x) == 0 {
		return nil
	}
	terms := Terms(len(x[0]), degree)
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = Expand(row, terms)
	}
	return out
}
