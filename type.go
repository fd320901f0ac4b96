package reservoir

import "fmt"

type Method string

const (
	Cubic   Method = "cubic"
	Kriging Method = "kriging"
	Linear  Method = "linear"
)

func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case Cubic, Kriging, Linear:
		return m, nil
	case "":
		return Cubic, nil
	}
	return "", fmt.Errorf("%w: unknown interpolation method %q", ErrInvalidInput, s)
}

type ModelType string

const (
	Gaussian    ModelType = "gaussian"
	Exponential ModelType = "exponential"
	Spherical   ModelType = "spherical"
)

type DistanceList [][2]float64

func (t DistanceList) Len() int {
	return len(t)
}

func (t DistanceList) Less(i, j int) bool {
	return t[i][0] < t[j][0]
}

func (t DistanceList) Swap(i, j int) {
	t[i], t[j] = t[j], t[i]
}
