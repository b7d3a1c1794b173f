package outline

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF lays out a rendered outline as an A4 PDF: one line per heading,
// indented and sized by level.
func WritePDF(w io.Writer, md string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; translate so accented names survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()
	left, _, _, _ := pdf.GetMargins()

	scanner := bufio.NewScanner(strings.NewReader(md))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if s == "" {
			continue
		}
		level := 0
		for level < len(s) && s[level] == '#' {
			level++
		}
		text := strings.TrimSpace(s[level:])
		if text == "" {
			continue
		}
		if level == 0 {
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 5, tr(text), "", "L", false)
			continue
		}
		size := 16.0 - float64(level)
		if size < 10 {
			size = 10
		}
		style := "B"
		if level > 3 {
			style = ""
		}
		pdf.SetFont("Helvetica", style, size)
		pdf.SetX(left + float64(level-1)*5)
		pdf.CellFormat(0, 7, tr(text), "", 1, "L", false, 0, "")
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return pdf.Output(w)
}

// WritePDFFile writes the PDF rendition of md to path.
func WritePDFFile(md string, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePDF(f, md); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
