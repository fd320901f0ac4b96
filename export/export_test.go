package export

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reservoir "github.com/flywave/go-reservoir"
	"github.com/flywave/go-reservoir/ingest"
)

func demoModel(t *testing.T) *reservoir.Model {
	pts := reservoir.DemoDataset()
	m, err := reservoir.Evaluate(pts, reservoir.DefaultContacts(reservoir.Describe(pts)), reservoir.Options{Nx: 40, Ny: 30})
	require.NoError(t, err)
	require.NotNil(t, m.Surface)
	return m
}

func TestGridCSVRoundTrip(t *testing.T) {
	a := assert.New(t)
	m := demoModel(t)

	var buf bytes.Buffer
	require.NoError(t, WriteGridCSV(&buf, m.Surface))
	a.True(strings.HasPrefix(buf.String(), "X,Y,Z\n"))

	pts, err := ingest.ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, pts, m.Surface.DefinedCount())

	i := 0
	for row := 0; row < m.Surface.Height; row++ {
		for col := 0; col < m.Surface.Width; col++ {
			z, ok := m.Surface.Depth(col, row)
			if !ok {
				continue
			}
			a.Equal(reservoir.ControlPoint{X: m.Surface.Xs[col], Y: m.Surface.Ys[row], Z: z}, pts[i])
			i++
		}
	}
}

func TestPointsCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePointsCSV(&buf, reservoir.DemoDataset()))
	pts, err := ingest.ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, reservoir.DemoDataset(), pts)
}

func TestGridCSVNoSurface(t *testing.T) {
	assert.Equal(t, ErrNoSurface, WriteGridCSV(&bytes.Buffer{}, nil))
}

func TestStatsCSV(t *testing.T) {
	a := assert.New(t)

	st := reservoir.Describe(reservoir.DemoDataset())
	var buf bytes.Buffer
	require.NoError(t, WriteStatsCSV(&buf, st))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	a.Len(lines, 9)
	a.Equal(",X,Y,Z", lines[0])
	a.Equal("count,13,13,13", lines[1])
	a.Equal("max,300,300,1300", lines[8])
}

func TestWriteSummary(t *testing.T) {
	a := assert.New(t)
	m := demoModel(t)

	r := NewReport(m)
	r.Generated = time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, r))

	s := buf.String()
	a.Contains(s, "Generated : 2024-05-01 08:30:00")
	a.Contains(s, "Control points    : 13 (13 unique locations)")
	a.Contains(s, "Interpolation     : cubic")
	mv := m.Volumes.Millions()
	a.Contains(s, fmt.Sprintf("Total reservoir   : %.4f million", mv.TotalReservoir))
	a.Contains(s, "Grid nodes used   : "+humanize.Comma(int64(m.Volumes.Nodes)))
	a.Contains(s, "Gross Rock Volume")
	a.Contains(s, "WELL TIES")
	a.Contains(s, "Wells tied        : 13 of 13")
	a.NotContains(s, "WARNINGS")
}

func TestWriteSummaryWithoutSurface(t *testing.T) {
	a := assert.New(t)

	pts := reservoir.DemoDataset()[:3]
	m, err := reservoir.Evaluate(pts, reservoir.Contacts{GOC: 1100, WOC: 1200}, reservoir.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, NewReport(m)))
	a.Contains(buf.String(), "Interpolation     : none")
	a.Contains(buf.String(), "Volumes           : not computed")
	a.Contains(buf.String(), "WARNINGS")
	a.NotContains(buf.String(), "WELL TIES")
}

func TestRenderStructureMap(t *testing.T) {
	a := assert.New(t)
	m := demoModel(t)

	var buf bytes.Buffer
	require.NoError(t, RenderStructureMap(&buf, m, 0, 0))
	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	a.True(cfg.Width > 0)
	a.True(cfg.Height > 0)
}

func TestRenderCrossSection(t *testing.T) {
	m := demoModel(t)

	var buf bytes.Buffer
	require.NoError(t, RenderCrossSection(&buf, m, 0, 0))
	_, err := png.DecodeConfig(&buf)
	assert.NoError(t, err)

	m.Surface = nil
	assert.Equal(t, ErrNoSurface, RenderCrossSection(&buf, m, 0, 0))
}

func TestWritePDF(t *testing.T) {
	a := assert.New(t)
	m := demoModel(t)

	charts, err := Charts(m)
	require.NoError(t, err)
	a.Len(charts, 2)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, NewReport(m), charts))
	a.True(bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
