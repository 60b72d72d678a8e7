package forecast

import (
	"fmt"
	"math"
)

// solveLeastSquares solves min ||Xb − y||² through the normal equations
// XᵀX b = Xᵀy with a Cholesky factorization. Returns an error when the
// design matrix is rank-deficient.
func solveLeastSquares(rows [][]float64, y []float64) ([]float64, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty design matrix")
	}
	k := len(rows[0])
	if len(rows) < k {
		return nil, fmt.Errorf("underdetermined system: %d rows for %d features", len(rows), k)
	}

	// A = XᵀX (symmetric, only the lower triangle is filled), b = Xᵀy.
	a := make([][]float64, k)
	for i := range a {
		a[i] = make([]float64, k)
	}
	b := make([]float64, k)
	for r, row := range rows {
		for i := 0; i < k; i++ {
			if row[i] == 0 {
				continue
			}
			for j := 0; j <= i; j++ {
				a[i][j] += row[i] * row[j]
			}
			b[i] += row[i] * y[r]
		}
	}

	l, err := cholesky(a)
	if err != nil {
		return nil, err
	}

	// Forward solve L z = b, then back solve Lᵀ x = z.
	z := make([]float64, k)
	for i := 0; i < k; i++ {
		sum := b[i]
		for j := 0; j < i; j++ {
			sum -= l[i][j] * z[j]
		}
		z[i] = sum / l[i][i]
	}
	x := make([]float64, k)
	for i := k - 1; i >= 0; i-- {
		sum := z[i]
		for j := i + 1; j < k; j++ {
			sum -= l[j][i] * x[j]
		}
		x[i] = sum / l[i][i]
	}
	return x, nil
}

// cholesky factors a symmetric positive-definite matrix (lower triangle
// of a) into L with a = LLᵀ.
func cholesky(a [][]float64) ([][]float64, error) {
	k := len(a)
	l := make([][]float64, k)
	for i := range l {
		l[i] = make([]float64, k)
	}
	for i := 0; i < k; i++ {
		for j := 0; j <= i; j++ {
			sum := a[i][j]
			for p := 0; p < j; p++ {
				sum -= l[i][p] * l[j][p]
			}
			if i == j {
				if sum <= 0 {
					return nil, fmt.Errorf("matrix is not positive definite at pivot %d", i)
				}
				l[i][i] = math.Sqrt(sum)
			} else {
				l[i][j] = sum / l[j][j]
			}
		}
	}
	return l, nil
}
