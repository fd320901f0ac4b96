// Package export writes reservoir models out as tables, text reports,
// charts and PDF documents.
package export

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"

	reservoir "github.com/flywave/go-reservoir"
)

var ErrNoSurface = errors.New("export: model has no surface")

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteGridCSV writes the defined nodes of s as X,Y,Z rows, X varying
// fastest. Undefined nodes are skipped.
func WriteGridCSV(w io.Writer, s *reservoir.Surface) error {
	if s == nil {
		return ErrNoSurface
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"X", "Y", "Z"}); err != nil {
		return err
	}
	for row := 0; row < s.Height; row++ {
		for col := 0; col < s.Width; col++ {
			z, ok := s.Depth(col, row)
			if !ok {
				continue
			}
			if err := cw.Write([]string{formatFloat(s.Xs[col]), formatFloat(s.Ys[row]), formatFloat(z)}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePointsCSV writes control points in the layout ingest reads back.
func WritePointsCSV(w io.Writer, points []reservoir.ControlPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"X", "Y", "Z"}); err != nil {
		return err
	}
	for _, p := range points {
		if err := cw.Write([]string{formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var statRows = []struct {
	name  string
	value func(reservoir.Summary) float64
}{
	{"count", func(s reservoir.Summary) float64 { return float64(s.Count) }},
	{"mean", func(s reservoir.Summary) float64 { return s.Mean }},
	{"std", func(s reservoir.Summary) float64 { return s.Std }},
	{"min", func(s reservoir.Summary) float64 { return s.Min }},
	{"25%", func(s reservoir.Summary) float64 { return s.Q25 }},
	{"50%", func(s reservoir.Summary) float64 { return s.Q50 }},
	{"75%", func(s reservoir.Summary) float64 { return s.Q75 }},
	{"max", func(s reservoir.Summary) float64 { return s.Max }},
}

// WriteStatsCSV writes the descriptive statistics table, one row per
// statistic and one column per axis.
func WriteStatsCSV(w io.Writer, st reservoir.Stats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"", "X", "Y", "Z"}); err != nil {
		return err
	}
	for _, r := range statRows {
		rec := []string{r.name, formatFloat(r.value(st.X)), formatFloat(r.value(st.Y)), formatFloat(r.value(st.Z))}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
