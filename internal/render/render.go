// Package render turns an aggregated shopping list into a downloadable file.
package render

import (
	"fmt"
	"strings"

	"github.com/pageza/foodgram/backend/internal/errs"
)

// Line is one aggregated ingredient.
type Line struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int64  `json:"amount"`
}

func (l Line) String() string {
	return fmt.Sprintf("%s %d %s", l.Name, l.Amount, l.MeasurementUnit)
}

// Artifact is a rendered file ready to be sent as an attachment.
type Artifact struct {
	Filename    string
	ContentType string
	Body        []byte
}

type Renderer interface {
	Render(lines []Line) (*Artifact, error)
}

const (
	FormatText = "txt"
	FormatPDF  = "pdf"
)

// ForFormat picks a renderer by name. The empty string selects PDF.
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", FormatPDF:
		return PDFRenderer{Title: "Shopping list"}, nil
	case FormatText, "text":
		return TextRenderer{}, nil
	}
	return nil, errs.Validation("format", fmt.Sprintf("unsupported format %q", format))
}
