package regress

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// ErrNotEnoughData is returned when there are too few rows to fit.
var ErrNotEnoughData = errors.New("not enough data to fit model")

// Options controls model fitting.
type Options struct {
	Degree       int
	Alpha        float64
	TestFraction float64
	Seed         int64
}

// DefaultOptions returns the settings the bot generator has always used.
func DefaultOptions() Options {
	return Options{
		Degree:       3,
		Alpha:        1.0,
		TestFraction: 0.2,
		Seed:         42,
	}
}

// Model is a fitted polynomial ridge regression.
type Model struct {
	Degree    int
	Terms     [][]int
	Coef      []float64
	Intercept float64

	TrainSize int
	TestSize  int
	// MSE is the mean squared error on the held-out rows; zero when TestSize is 0.
	MSE float64
}

// Predict returns the model output for a raw input row.
func (m *Model) Predict(x []float64) float64 {
	features := Expand(x, m.Terms)
	out := m.Intercept
	for i, f := range features {
		out += m.Coef[i] * f
	}
	return out
}

// Fit expands x to polynomial features, fits a ridge model on a shuffled
// train split and scores it on the held-out rows.
func Fit(x [][]float64, y []float64, opts Options) (*Model, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("row count mismatch: %d inputs, %d targets", len(x), len(y))
	}
	if len(x) < 2 {
		return nil, ErrNotEnoughData
	}
	if opts.Degree < 1 {
		return nil, fmt.Errorf("degree must be >= 1, got %d", opts.Degree)
	}
	if opts.Alpha < 0 {
		return nil, fmt.Errorf("alpha must be >= 0, got %g", opts.Alpha)
	}

	terms := Terms(len(x[0]), opts.Degree)
	features := make([][]float64, len(x))
	for i, row := range x {
		features[i] = Expand(row, terms)
	}

	trainIdx, testIdx := Split(len(x), opts.TestFraction, opts.Seed)
	trainX, trainY := pick(features, y, trainIdx)
	coef, intercept, err := FitRidge(trainX, trainY, opts.Alpha)
	if err != nil {
		return nil, err
	}

	m := &Model{
		Degree:    opts.Degree,
		Terms:     terms,
		Coef:      coef,
		Intercept: intercept,
		TrainSize: len(trainIdx),
		TestSize:  len(testIdx),
	}
	if len(testIdx) > 0 {
		var sum float64
		for _, i := range testIdx {
			diff := m.Predict(x[i]) - y[i]
			sum += diff * diff
		}
		m.MSE = sum / float64(len(testIdx))
	}
	return m, nil
}

// Split shuffles row indices with the seed and holds out ceil(n*testFraction)
// of them, always leaving at least one training row.
func Split(n int, testFraction float64, seed int64) (train, test []int) {
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := 0
	if testFraction > 0 {
		nTest = int(math.Ceil(float64(n) * testFraction))
	}
	if nTest >= n {
		nTest = n - 1
	}
	if nTest < 0 {
		nTest = 0
	}
	return perm[nTest:], perm[:nTest]
}

func pick(x [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	px := make([][]float64, len(idx))
	py := make([]float64, len(idx))
	for i, j := range idx {
		px[i] = x[j]
		py[i] = y[j]
	}
	return px, py
}

// FitRidge solves (XcᵀXc + alpha·I)w = Xcᵀyc on mean-centred data so the
// intercept is not penalised.
func FitRidge(x [][]float64, y []float64, alpha float64) ([]float64, float64, error) {
	rows := len(x)
	if rows == 0 {
		return nil, 0, ErrNotEnoughData
	}
	cols := len(x[0])

	xMean := make([]float64, cols)
	var yMean float64
	for i, row := range x {
		for j, v := range row {
			xMean[j] += v
		}
		yMean += y[i]
	}
	for j := range xMean {
		xMean[j] /= float64(rows)
	}
	yMean /= float64(rows)

	xc := mat.NewDense(rows, cols, nil)
	yc := mat.NewVecDense(rows, nil)
	for i, row := range x {
		for j, v := range row {
			xc.Set(i, j, v-xMean[j])
		}
		yc.SetVec(i, y[i]-yMean)
	}

	gram := mat.NewSymDense(cols, nil)
	gram.SymOuterK(1, xc.T())
	for j := 0; j < cols; j++ {
		gram.SetSym(j, j, gram.At(j, j)+alpha)
	}
	var rhs mat.VecDense
	rhs.MulVec(xc.T(), yc)

	var w mat.VecDense
	var chol mat.Cholesky
	if chol.Factorize(gram) {
		if err := chol.SolveVecTo(&w, &rhs); err != nil {
			return nil, 0, fmt.Errorf("failed to solve ridge system: %w", err)
		}
	} else if err := w.SolveVec(gram, &rhs); err != nil {
		return nil, 0, fmt.Errorf("failed to solve ridge system: %w", err)
	}

	coef := make([]float64, cols)
	intercept := yMean
	for j := range coef {
		coef[j] = w.AtVec(j)
		intercept -= coef[j] * xMean[j]
	}
	return coef, intercept, nil
}
