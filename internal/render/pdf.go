package render

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// DejaVu covers Latin, Cyrillic and Greek, which the core PDF fonts do not.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	regularFont []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	boldFont []byte
)

const fontFamily = "DejaVu"

// PDFRenderer lays the list out on A4 pages. fpdf breaks pages on its own
// once the lines overflow the bottom margin.
type PDFRenderer struct {
	Title string
}

func (r PDFRenderer) Render(lines []Line) (*Artifact, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", regularFont)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", boldFont)
	pdf.SetTitle(r.Title, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, r.Title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(fontFamily, "", 12)
	for _, l := range lines {
		pdf.CellFormat(0, 8, l.String(), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render shopping list pdf: %w", err)
	}
	return &Artifact{
		Filename:    "shopping_cart.pdf",
		ContentType: "application/pdf",
		Body:        buf.Bytes(),
	}, nil
}
