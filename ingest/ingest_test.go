package ingest

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	reservoir "github.com/flywave/go-reservoir"
)

func TestReadCSV(t *testing.T) {
	a := assert.New(t)

	in := "well,x, Y ,z,comment\nA,100,200,1300,dry\n\nB,300,100.5,1150,\n"
	pts, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	a.Equal([]reservoir.ControlPoint{{X: 100, Y: 200, Z: 1300}, {X: 300, Y: 100.5, Z: 1150}}, pts)
}

func TestReadCSVMissingColumns(t *testing.T) {
	a := assert.New(t)

	_, err := ReadCSV(strings.NewReader("x,depth\n1,2\n"))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	a.Equal([]string{"Y", "Z"}, ve.Missing)
	a.Equal([]string{"X", "DEPTH"}, ve.Found)
	a.Contains(err.Error(), "missing required columns Y, Z")

	_, err = ReadCSV(strings.NewReader(""))
	a.True(errors.As(err, &ve))
	a.Equal(Required, ve.Missing)
}

func TestReadCSVBadNumber(t *testing.T) {
	a := assert.New(t)

	_, err := ReadCSV(strings.NewReader("X,Y,Z\n1,2,3\n4,five,6\n"))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	a.Equal(3, ve.Row)
	a.Equal("Y", ve.Column)
	a.Equal("five", ve.Value)

	_, err = ReadCSV(strings.NewReader("X,Y,Z\n1,2,NaN\n"))
	a.True(errors.As(err, &ve))
	a.Equal("Z", ve.Column)

	_, err = ReadCSV(strings.NewReader("X,Y,Z\n1,2\n"))
	a.True(errors.As(err, &ve))
	a.Equal("Z", ve.Column)
}

func TestReadXLSX(t *testing.T) {
	a := assert.New(t)

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("wells")
	require.NoError(t, err)
	header := sheet.AddRow()
	for _, name := range []string{"Name", "x", "y", "Z"} {
		header.AddCell().Value = name
	}
	for _, p := range reservoir.DemoDataset()[:3] {
		row := sheet.AddRow()
		row.AddCell().Value = "w"
		row.AddCell().SetFloat(p.X)
		row.AddCell().SetFloat(p.Y)
		row.AddCell().SetFloat(p.Z)
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	pts, err := Read("wells.XLSX", &buf)
	require.NoError(t, err)
	a.Equal(reservoir.DemoDataset()[:3], pts)
}

func TestReadUnsupported(t *testing.T) {
	_, err := Read("wells.txt", strings.NewReader("X,Y,Z\n"))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}
