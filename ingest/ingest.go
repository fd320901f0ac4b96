// Package ingest reads control points from tabular files. A table must
// have X, Y and Z columns; header names are matched case-insensitively
// and other columns are ignored. A file is either loaded completely or
// rejected.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx"

	reservoir "github.com/flywave/go-reservoir"
)

var Required = []string{"X", "Y", "Z"}

var ErrUnsupportedFormat = errors.New("ingest: unsupported file format")

// ValidationError describes why a table was rejected.
type ValidationError struct {
	Source  string
	Missing []string
	Found   []string

	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("ingest: %s: missing required columns %s (found %s)",
			e.Source, strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
	}
	if e.Err != nil && e.Column == "" {
		return fmt.Sprintf("ingest: %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("ingest: %s: row %d column %s: invalid number %q: %v", e.Source, e.Row, e.Column, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ReadFile loads a .csv or .xlsx file.
func ReadFile(path string) ([]reservoir.ControlPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(filepath.Base(path), f)
}

// Read parses r according to the extension of name.
func Read(name string, r io.Reader) ([]reservoir.ControlPoint, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return readCSV(name, r)
	case ".xlsx":
		return readXLSX(name, r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

func ReadCSV(r io.Reader) ([]reservoir.ControlPoint, error) {
	return readCSV("csv", r)
}

func ReadXLSX(r io.Reader) ([]reservoir.ControlPoint, error) {
	return readXLSX("xlsx", r)
}

func readCSV(source string, r io.Reader) ([]reservoir.ControlPoint, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &ValidationError{Source: source, Err: err}
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return parseTable(source, records)
}

func readXLSX(source string, r io.Reader) ([]reservoir.ControlPoint, error) {
	bs, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := xlsx.OpenBinary(bs)
	if err != nil {
		return nil, &ValidationError{Source: source, Err: err}
	}
	if len(f.Sheets) == 0 {
		return nil, &ValidationError{Source: source, Err: errors.New("workbook has no sheets")}
	}

	sheet := f.Sheets[0]
	records := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			records = append(records, nil)
			continue
		}
		rec := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			if cell != nil {
				rec[i] = cell.Value
			}
		}
		records = append(records, rec)
	}
	return parseTable(source+":"+sheet.Name, records)
}

// parseTable converts the first record into a header and the rest into
// points. Blank records are skipped.
func parseTable(source string, records [][]string) ([]reservoir.ControlPoint, error) {
	var header []string
	offset := 0
	for len(records) > 0 && header == nil {
		if !blank(records[0]) {
			header = records[0]
		}
		records = records[1:]
		offset++
	}

	index := make(map[string]int)
	found := make([]string, 0, len(header))
	for i, name := range header {
		name = strings.ToUpper(strings.TrimSpace(name))
		found = append(found, name)
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	var missing []string
	for _, name := range Required {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Source: source, Missing: missing, Found: found}
	}

	points := make([]reservoir.ControlPoint, 0, len(records))
	for r, rec := range records {
		if blank(rec) {
			continue
		}
		var v [3]float64
		for k, name := range Required {
			var cell string
			if i := index[name]; i < len(rec) {
				cell = strings.TrimSpace(rec[i])
			}
			f, err := strconv.ParseFloat(cell, 64)
			if err == nil && !isFinite(f) {
				err = errors.New("not a finite number")
			}
			if err != nil {
				return nil, &ValidationError{Source: source, Row: offset + r + 1, Column: name, Value: cell, Err: err}
			}
			v[k] = f
		}
		points = append(points, reservoir.ControlPoint{X: v[0], Y: v[1], Z: v[2]})
	}
	return points, nil
}

func blank(rec []string) bool {
	for _, s := range rec {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
