// Package pdf implements report documents on top of fpdf.
package pdf

import (
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	fontFamily   = "Arial"
	marginBottom = 15.0 // mm
	imageX       = 10.0 // mm
	imageWidth   = 190.0
)

// Document is an A4 portrait PDF that flows text lines and images down the
// page, breaking onto new pages as needed.
type Document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// New starts a document with its first page.
func New() *Document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.AddPage()
	return &Document{
		pdf: pdf,
		// Core fonts are cp1252; translate accented Spanish text.
		tr: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// Heading writes a centred bold title line.
func (d *Document) Heading(text string) {
	d.pdf.SetFont(fontFamily, "B", 14)
	d.pdf.CellFormat(0, 10, d.tr(text), "", 1, "C", false, 0, "")
}

// Caption writes a small centred italic line.
func (d *Document) Caption(text string) {
	d.pdf.SetFont(fontFamily, "I", 9)
	d.pdf.CellFormat(0, 6, d.tr(text), "", 1, "C", false, 0, "")
}

// Line writes one left-aligned body line.
func (d *Document) Line(text string) {
	d.pdf.SetFont(fontFamily, "", 10)
	d.pdf.CellFormat(0, 8, d.tr(text), "", 1, "L", false, 0, "")
}

// Image embeds a PNG at the current position, full content width, keeping its
// aspect ratio.
func (d *Document) Image(path string) error {
	d.pdf.ImageOptions(path, imageX, 0, imageWidth, 0, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("embed image: %w", err)
	}
	return nil
}

// Pages returns the current page count.
func (d *Document) Pages() int {
	return d.pdf.PageCount()
}

// Save writes the document to path and closes it.
func (d *Document) Save(path string) error {
	if err := d.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
