package reservoir

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// SyntheticConfig describes a noisy anticline sampled at random well
// locations. Zero fields take the defaults below.
type SyntheticConfig struct {
	Wells int
	Seed  int64
	// Extent is the side of the square survey area.
	Extent float64
	// Crest is the depth at the centre and Relief the depth added at the
	// corners.
	Crest  float64
	Relief float64
	Noise  float64
}

func (c SyntheticConfig) withDefaults() SyntheticConfig {
	if c.Wells <= 0 {
		c.Wells = 30
	}
	if c.Seed == 0 {
		c.Seed = rand.Int63()
	}
	if c.Extent <= 0 {
		c.Extent = 1000
	}
	if c.Crest == 0 {
		c.Crest = 1000
	}
	if c.Relief == 0 {
		c.Relief = 300
	}
	if c.Noise == 0 {
		c.Noise = 25
	}
	return c
}

// Synthetic generates control points over a dome with fractal noise. The
// same seed always gives the same points.
func Synthetic(cfg SyntheticConfig) []ControlPoint {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed))
	noise := opensimplex.NewNormalized(cfg.Seed)

	half := cfg.Extent / 2
	rmax := math.Hypot(half, half)
	ret := make([]ControlPoint, cfg.Wells)
	for i := range ret {
		x := rng.Float64() * cfg.Extent
		y := rng.Float64() * cfg.Extent
		r := math.Hypot(x-half, y-half) / rmax
		n := octaveNoise(noise, x/cfg.Extent, y/cfg.Extent, 4, 3, 0.5)
		ret[i] = ControlPoint{
			X: x,
			Y: y,
			Z: cfg.Crest + cfg.Relief*r*r + cfg.Noise*(2*n-1),
		}
	}
	return ret
}

// octaveNoise layers several frequencies of noise, normalised to [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}
