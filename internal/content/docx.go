// Package content contains conversion and cleanup of post bodies.
package content

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
)

const documentPart = "word/document.xml"

// MaxDocumentSize is a limit of uncompressed word/document.xml.
const MaxDocumentSize = 16 << 20

var (
	// ErrNotDOCX is returned when the file is not a Word document.
	ErrNotDOCX = errors.New("file is not a docx document")
	// ErrTooLarge is returned when uncompressed document exceeds MaxDocumentSize.
	ErrTooLarge = errors.New("document is too large")
)

type paragraph struct {
	style string
	list  bool
	body  strings.Builder
}

type run struct {
	bold, italic, underline bool
	body                    strings.Builder
}

// DOCXToHTML converts word/document.xml of a docx archive to HTML.
// Headings are rendered as h1-h6, numbered and bulleted paragraphs as ul/li, the rest as p.
// Empty paragraphs are skipped.
func DOCXToHTML(r io.ReaderAt, size int64) (string, error) {
	return docxToHTML(r, size, MaxDocumentSize)
}

func docxToHTML(r io.ReaderAt, size int64, limit int64) (string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotDOCX, err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", ErrNotDOCX
	}
	if doc.UncompressedSize64 > uint64(limit) {
		return "", ErrTooLarge
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", documentPart, err)
	}
	defer rc.Close() // nolint:errcheck

	return convert(xml.NewDecoder(&limitedReader{r: rc, n: limit}))
}

// limitedReader fails with ErrTooLarge once more than n bytes are read.
type limitedReader struct {
	r io.Reader
	n int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.n < 0 {
		return 0, ErrTooLarge
	}
	if int64(len(p)) > l.n+1 {
		p = p[:l.n+1]
	}

	n, err := l.r.Read(p)
	l.n -= int64(n)
	if l.n < 0 {
		return 0, ErrTooLarge
	}

	return n, err
}

// nolint:gocyclo
func convert(d *xml.Decoder) (string, error) {
	var (
		out    strings.Builder
		p      *paragraph
		rn     *run
		inText bool
		inList bool
	)

	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to decode document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				p = &paragraph{}
			case "pStyle":
				if p != nil {
					p.style = attr(t, "val")
				}
			case "numPr":
				if p != nil {
					p.list = true
				}
			case "r":
				rn = &run{}
			case "b":
				if rn != nil {
					rn.bold = enabled(t)
				}
			case "i":
				if rn != nil {
					rn.italic = enabled(t)
				}
			case "u":
				if rn != nil {
					rn.underline = enabled(t) && attr(t, "val") != "none"
				}
			case "t":
				inText = true
			case "tab":
				if rn != nil {
					rn.body.WriteString("\t")
				}
			case "br":
				if rn != nil {
					rn.body.WriteString("<br>")
				}
			}
		case xml.CharData:
			if inText && rn != nil {
				rn.body.WriteString(html.EscapeString(string(t)))
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "r":
				if rn != nil && p != nil {
					p.body.WriteString(rn.html())
				}
				rn = nil
			case "p":
				if p == nil {
					continue
				}
				if p.list {
					if !inList {
						out.WriteString("<ul>")
						inList = true
					}
					out.WriteString("<li>" + p.body.String() + "</li>")
				} else {
					if inList {
						out.WriteString("</ul>")
						inList = false
					}
					if p.body.Len() > 0 {
						tag := p.tag()
						out.WriteString("<" + tag + ">" + p.body.String() + "</" + tag + ">")
					}
				}
				p = nil
			}
		}
	}

	if inList {
		out.WriteString("</ul>")
	}

	return out.String(), nil
}

func (r *run) html() string {
	s := r.body.String()
	if s == "" {
		return ""
	}

	if r.underline {
		s = "<u>" + s + "</u>"
	}
	if r.italic {
		s = "<em>" + s + "</em>"
	}
	if r.bold {
		s = "<strong>" + s + "</strong>"
	}

	return s
}

func (p *paragraph) tag() string {
	s := strings.ToLower(strings.ReplaceAll(p.style, " ", ""))
	if strings.HasPrefix(s, "heading") && len(s) == len("heading")+1 {
		if n := s[len(s)-1]; n >= '1' && n <= '6' {
			return "h" + string(n)
		}
	}
	return "p"
}

func attr(e xml.StartElement, local string) string {
	for _, a := range e.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// enabled reports whether a toggle property like <w:b/> or <w:b w:val="true"/> is on.
func enabled(e xml.StartElement) bool {
	switch attr(e, "val") {
	case "0", "false", "off":
		return false
	}
	return true
}
