package forecast

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Regressor is a fitted parametric model queried row by row.
type Regressor interface {
	Fit(x [][]float64, y []float64) error
	Predict(row []float64) float64
}

// linearRegressor is ordinary least squares with an intercept, solved via QR.
type linearRegressor struct {
	intercept float64
	coef      []float64
}

func newLinearRegressor() *linearRegressor {
	return &linearRegressor{}
}

func (l *linearRegressor) Fit(x [][]float64, y []float64) error {
	n := len(x)
	if n == 0 || n != len(y) {
		return fmt.Errorf("linear fit: %d rows against %d labels", n, len(y))
	}
	p := len(x[0])
	if n < p+1 {
		return fmt.Errorf("linear fit: %d rows cannot identify %d coefficients", n, p+1)
	}

	design := mat.NewDense(n, p+1, nil)
	for i, row := range x {
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}

	var qr mat.QR
	qr.Factorize(design)

	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, mat.NewVecDense(n, y)); err != nil {
		// A Condition error still carries a usable solution; anything else
		// means the design matrix is unusable.
		if _, ok := err.(mat.Condition); !ok {
			return fmt.Errorf("linear fit: %w", err)
		}
	}

	l.intercept = beta.At(0, 0)
	l.coef = make([]float64, p)
	for j := 0; j < p; j++ {
		l.coef[j] = beta.At(j+1, 0)
	}
	return nil
}

func (l *linearRegressor) Predict(row []float64) float64 {
	v := l.intercept
	for j, c := range l.coef {
		if j < len(row) {
			v += c * row[j]
		}
	}
	return v
}
