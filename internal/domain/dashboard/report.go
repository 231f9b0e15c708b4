package dashboard

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders the counters a viewer is allowed to see as a one page summary.
func WritePDF(w io.Writer, title string, cards []StatCard, stats Stats) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s UTC", stats.GeneratedAt.UTC().Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	if len(cards) == 0 {
		pdf.Cell(0, 8, "No statistics available for this account.")
	}
	for _, card := range cards {
		pdf.CellFormat(90, 8, card.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%d", card.Value), "1", 1, "R", false, 0, "")
	}
	return pdf.Output(w)
}
