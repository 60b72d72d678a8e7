package residual

import (
	"fmt"
)

// yuleWalker estimates AR(p) coefficients from the sample autocovariances
// with the Levinson-Durbin recursion. The recursion keeps the fitted
// polynomial inside the stationarity region when the autocovariance
// sequence is positive definite.
func yuleWalker(x []float64, p int) ([]float64, error) {
	c := autocov(x, p)
	if c[0] <= 0 {
		return nil, fmt.Errorf("zero-variance series")
	}

	phi := make([]float64, p)
	prev := make([]float64, p)
	v := c[0]
	for k := 1; k <= p; k++ {
		acc := c[k]
		for j := 1; j < k; j++ {
			acc -= prev[j-1] * c[k-j]
		}
		if v == 0 {
			return nil, fmt.Errorf("Levinson-Durbin recursion broke down at lag %d", k)
		}
		reflect := acc / v

		for j := 1; j < k; j++ {
			phi[j-1] = prev[j-1] - reflect*prev[k-j-1]
		}
		phi[k-1] = reflect
		v *= 1 - reflect*reflect
		copy(prev, phi[:k])
	}
	return phi, nil
}

// hannanRissanen estimates a mixed ARMA(p,q) model: a long AR fit first
// approximates the innovations, then x_t is regressed jointly on its own
// lags and the lagged innovation estimates.
func hannanRissanen(x []float64, p, q int) (phi, theta []float64, err error) {
	long := p
	if q > long {
		long = q
	}
	long += 5
	if len(x) <= 2*long {
		return nil, nil, fmt.Errorf("series too short for Hannan-Rissanen long AR of order %d", long)
	}

	phiLong, err := yuleWalker(x, long)
	if err != nil {
		return nil, nil, err
	}
	e := innovations(x, phiLong, nil)

	// Innovation estimates before index `long` lean on the zero presample;
	// start the regression past both the AR lags and those warm-up terms.
	start := long + q
	if p > start {
		start = p
	}
	k := p + q
	var rows [][]float64
	var targets []float64
	for t := start; t < len(x); t++ {
		row := make([]float64, 0, k)
		for i := 1; i <= p; i++ {
			row = append(row, x[t-i])
		}
		for j := 1; j <= q; j++ {
			row = append(row, e[t-j])
		}
		rows = append(rows, row)
		targets = append(targets, x[t])
	}
	if len(rows) <= k {
		return nil, nil, fmt.Errorf("not enough rows for the stage-two regression")
	}

	coef, err := solveNormal(rows, targets)
	if err != nil {
		return nil, nil, err
	}
	return coef[:p], coef[p:], nil
}

// autocov returns biased sample autocovariances c[0..maxLag].
func autocov(x []float64, maxLag int) []float64 {
	n := len(x)
	c := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag; lag++ {
		sum := 0.0
		for t := lag; t < n; t++ {
			sum += x[t] * x[t-lag]
		}
		c[lag] = sum / float64(n)
	}
	return c
}

// solveNormal solves the least-squares problem through the normal
// equations with Gaussian elimination and partial pivoting.
func solveNormal(rows [][]float64, y []float64) ([]float64, error) {
	k := len(rows[0])
	a := make([][]float64, k)
	for i := range a {
		a[i] = make([]float64, k+1)
	}
	for r, row := range rows {
		for i := 0; i < k; i++ {
			for j := 0; j < k; j++ {
				a[i][j] += row[i] * row[j]
			}
			a[i][k] += row[i] * y[r]
		}
	}

	for col := 0; col < k; col++ {
		pivot := col
		for r := col + 1; r < k; r++ {
			if abs(a[r][col]) > abs(a[pivot][col]) {
				pivot = r
			}
		}
		if abs(a[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("singular normal equations at column %d", col)
		}
		a[col], a[pivot] = a[pivot], a[col]
		for r := col + 1; r < k; r++ {
			f := a[r][col] / a[col][col]
			for j := col; j <= k; j++ {
				a[r][j] -= f * a[col][j]
			}
		}
	}

	x := make([]float64, k)
	for i := k - 1; i >= 0; i-- {
		sum := a[i][k]
		for j := i + 1; j < k; j++ {
			sum -= a[i][j] * x[j]
		}
		x[i] = sum / a[i][i]
	}
	return x, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
