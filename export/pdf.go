package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF writes the summary on the first page followed by one page per
// chart.
func WritePDF(w io.Writer, r Report, charts []Chart) error {
	if r.Model == nil {
		return ErrNoSurface
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.Title, false)
	pdf.SetAutoPageBreak(true, 15)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, r.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 8, "Generated "+r.Generated.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Line(10, 30, 200, 30)
	pdf.Ln(6)

	for _, l := range r.lines() {
		if strings.HasPrefix(l, "# ") {
			pdf.Ln(3)
			pdf.SetFont("Helvetica", "B", 12)
			pdf.CellFormat(0, 9, l[2:], "", 1, "L", false, 0, "")
			pdf.SetFont("Courier", "", 10)
			continue
		}
		pdf.MultiCell(0, 6, l, "", "L", false)
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, grvNote, "", "L", false)

	for i, c := range charts {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, fmt.Sprintf("Appendix %c: %s", 'A'+i, c.Title), "", 1, "C", false, 0, "")
		name := fmt.Sprintf("chart%d", i)
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(c.PNG))
		pdf.ImageOptions(name, 15, 30, 180, 0, false, opts, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
