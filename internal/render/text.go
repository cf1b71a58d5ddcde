package render

import "bytes"

// TextRenderer writes one line per ingredient and nothing else, so an empty
// list yields an empty file.
type TextRenderer struct{}

func (TextRenderer) Render(lines []Line) (*Artifact, error) {
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l.String())
		buf.WriteByte('\n')
	}
	return &Artifact{
		Filename:    "shopping_cart.txt",
		ContentType: "text/plain; charset=utf-8",
		Body:        buf.Bytes(),
	}, nil
}
