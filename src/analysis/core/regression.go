package core

// LinearFit is an ordinary least squares line y = Slope*x + Intercept.
type LinearFit struct {
	Slope     float64
	Intercept float64
	Points    int
}

// FitLinear fits y = a*x + b by ordinary least squares.
//
// With a single point, or when every x is identical, the slope is undefined;
// the fit degrades to a horizontal line through the mean of y. ok is false
// only when there are no points or the slices differ in length.
func FitLinear(x, y []float64) (fit LinearFit, ok bool) {
	n := len(x)
	if n == 0 || n != len(y) {
		return LinearFit{}, false
	}

	meanX, _ := CalculateMeanStd(x)
	meanY, _ := CalculateMeanStd(y)

	var sxx, sxy float64
	for i := range x {
		dx := x[i] - meanX
		sxx += dx * dx
		sxy += dx * (y[i] - meanY)
	}

	if sxx == 0 {
		return LinearFit{Slope: 0, Intercept: meanY, Points: n}, true
	}

	slope := sxy / sxx
	return LinearFit{Slope: slope, Intercept: meanY - slope*meanX, Points: n}, true
}

// Predict evaluates the line at x.
func (f LinearFit) Predict(x float64) float64 {
	return f.Slope*x + f.Intercept
}
