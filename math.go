package reservoir

import (
	"math"
)

func exp(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Exp(x)
}

func pow2(x float64) float64 {
	return x * x
}

func pow3(x float64) float64 {
	return x * x * x
}

func Lerp(value1, value2, amount float64) float64 { return value1 + (value2-value1)*amount }

// linspace returns n evenly spaced samples over [min, max], both ends
// included.
func linspace(min, max float64, n int) []float64 {
	ret := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range ret {
		ret[i] = min + step*float64(i)
	}
	ret[n-1] = max
	return ret
}
