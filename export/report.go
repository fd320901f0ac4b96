package export

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	reservoir "github.com/flywave/go-reservoir"
)

const (
	ruleWide = "=================================================="
	ruleThin = "--------------------------------------------------"

	grvNote = "Volumes are Gross Rock Volume (GRV) estimates from the current surface interpolation."
)

// Report is the material for the text and PDF summaries.
type Report struct {
	Title     string
	Generated time.Time
	Model     *reservoir.Model
}

func NewReport(m *reservoir.Model) Report {
	return Report{Title: "Reservoir Volumetrics Report", Generated: time.Now(), Model: m}
}

func (r Report) method() string {
	if r.Model.Surface == nil {
		return "none"
	}
	return string(r.Model.Surface.Method)
}

// lines is the report body shared by the text and PDF writers. Section
// headings are returned with a leading '#'.
func (r Report) lines() []string {
	m := r.Model
	st := m.Stats
	out := []string{
		"# 1. Input statistics",
		fmt.Sprintf("Control points    : %d (%d unique locations)", len(m.Points), len(m.Unique)),
		fmt.Sprintf("X range           : %g - %g", st.X.Min, st.X.Max),
		fmt.Sprintf("Y range           : %g - %g", st.Y.Min, st.Y.Max),
		fmt.Sprintf("Depth range       : %g - %g", st.Z.Min, st.Z.Max),
		fmt.Sprintf("Depth mean / std  : %.2f / %.2f", st.Z.Mean, st.Z.Std),
		"# 2. Fluid contacts",
		fmt.Sprintf("Gas-oil contact (GOC)   : %g", m.Contacts.GOC),
		fmt.Sprintf("Water-oil contact (WOC) : %g", m.Contacts.WOC),
	}
	counts := reservoir.CountZones(m.Classified)
	for _, z := range []reservoir.FluidZone{reservoir.GasCap, reservoir.OilZone, reservoir.Aquifer} {
		out = append(out, fmt.Sprintf("Wells in %-15s: %d", strings.ToLower(z.String()), counts[z]))
	}

	out = append(out, "# 3. Gross rock volume", fmt.Sprintf("Interpolation     : %s", r.method()))
	if m.Volumes != nil {
		mv := m.Volumes.Millions()
		v := m.Volumes
		out = append(out,
			fmt.Sprintf("Grid nodes used   : %s", humanize.Comma(int64(v.Nodes))),
			fmt.Sprintf("Gas cap           : %.4f million (%s)", mv.GasCap, humanize.Commaf(math.Round(v.GasCap))),
			fmt.Sprintf("Oil zone          : %.4f million (%s)", mv.OilZone, humanize.Commaf(math.Round(v.OilZone))),
			fmt.Sprintf("Total reservoir   : %.4f million (%s)", mv.TotalReservoir, humanize.Commaf(math.Round(v.TotalReservoir))),
		)
	} else {
		out = append(out, "Volumes           : not computed")
	}

	if len(m.Ties) > 0 {
		var sum, worst float64
		for _, t := range m.Ties {
			sum += t.Residual * t.Residual
			worst = math.Max(worst, math.Abs(t.Residual))
		}
		out = append(out,
			"# 4. Well ties",
			fmt.Sprintf("Wells tied        : %d of %d", len(m.Ties), len(m.Unique)),
			fmt.Sprintf("RMS residual      : %.3f", math.Sqrt(sum/float64(len(m.Ties)))),
			fmt.Sprintf("Max |residual|    : %.3f", worst),
		)
	}

	if len(m.Warnings) > 0 {
		out = append(out, "# Warnings")
		for _, w := range m.Warnings {
			out = append(out, "- "+w)
		}
	}
	return out
}

// WriteSummary writes r as a plain text report.
func WriteSummary(w io.Writer, r Report) error {
	if r.Model == nil {
		return ErrNoSurface
	}
	var b strings.Builder
	fmt.Fprintln(&b, ruleWide)
	fmt.Fprintln(&b, strings.ToUpper(r.Title))
	fmt.Fprintln(&b, ruleWide)
	fmt.Fprintf(&b, "Generated : %s\n", r.Generated.Format("2006-01-02 15:04:05"))
	for _, l := range r.lines() {
		if strings.HasPrefix(l, "# ") {
			fmt.Fprintln(&b, ruleThin)
			fmt.Fprintln(&b, strings.ToUpper(l[2:]))
			fmt.Fprintln(&b, ruleThin)
			continue
		}
		fmt.Fprintln(&b, l)
	}
	fmt.Fprintln(&b, ruleThin)
	fmt.Fprintln(&b, "Note:")
	fmt.Fprintln(&b, grvNote)
	fmt.Fprintln(&b, ruleWide)
	_, err := io.WriteString(w, b.String())
	return err
}
