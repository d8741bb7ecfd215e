// Package render lays out the invoice on a gofpdf canvas: a title header on
// every page, labeled key/value sections and a bordered service table.
//
// The document is drawn in a single forward pass. Nothing is moved or
// redrawn once committed to a page.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// ErrInvalidAmount is returned when a row's quantity or rate is not a number.
var ErrInvalidAmount = errors.New("invalid amount")

const (
	fontFamily = "Helvetica"

	// BottomMargin is the auto page break margin.
	BottomMargin = 15.0

	LabelWidth   = 60.0
	ValueWidth   = 120.0
	pairHeight   = 8.0
	titleHeight  = 10.0
	headerHeight = 8.0
	lineHeight   = 6.0
	blockGap     = 7.0
)

// ColumnWidths are the service table's fixed column widths.
var ColumnWidths = [4]float64{80, 25, 40, 40}

// Pair is one label/value line of a section.
type Pair struct {
	Label string
	Value string
}

// Row holds description, quantity, unit rate and total. The total cell is
// overwritten when the row is drawn.
type Row [4]string

// BlockKind tells sections and tables apart in the block log.
type BlockKind string

const (
	KindSection BlockKind = "section"
	KindTable   BlockKind = "table"
)

// Block is one entry of the append-only log of what was drawn.
type Block struct {
	Kind  BlockKind
	Title string
}

// Document is a paginated invoice canvas.
type Document struct {
	pdf    *gofpdf.Fpdf
	title  string
	blocks []Block

	headers    int
	contentTop float64
	frames     []frame
}

// frame is the vertical extent of one drawn table row.
type frame struct {
	page        int
	top, bottom float64
}

// New creates an A4 document whose pages all start with title and opens the
// first page.
func New(title string) *Document {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, BottomMargin)

	d := &Document{
		pdf:   pdf,
		title: title,
	}
	pdf.SetTitle(title, true)
	pdf.SetCreator("invoicegen", true)
	pdf.SetHeaderFunc(d.drawHeader)
	pdf.AddPage()
	return d
}

// drawHeader runs on every new page.
func (d *Document) drawHeader() {
	d.pdf.SetFont(fontFamily, "B", 18)
	d.pdf.CellFormat(0, titleHeight, d.text(d.title), "", 1, "C", false, 0, "")
	d.pdf.Ln(5)
	d.headers++
	d.contentTop = d.pdf.GetY()
}

// AddSection draws a bold title followed by one label/value line per pair.
func (d *Document) AddSection(title string, pairs []Pair) {
	d.drawTitle(title)

	d.pdf.SetFont(fontFamily, "", 11)
	for _, p := range pairs {
		d.pdf.CellFormat(LabelWidth, pairHeight, d.text(p.Label+":"), "0", 0, "L", false, 0, "")
		d.pdf.CellFormat(ValueWidth, pairHeight, d.text(p.Value), "0", 1, "L", false, 0, "")
	}
	d.pdf.Ln(blockGap)

	d.blocks = append(d.blocks, Block{Kind: KindSection, Title: title})
}

// AddTable draws a bordered table. Each row's total is computed as
// quantity times rate and written back into rows. Every cell of a row is
// framed at the height of the row's tallest cell.
func (d *Document) AddTable(title string, header [4]string, rows []Row) error {
	d.drawTitle(title)

	d.pdf.SetFont(fontFamily, "B", 11)
	for i, name := range header {
		d.pdf.CellFormat(ColumnWidths[i], headerHeight, d.text(name), "1", 0, "C", false, 0, "")
	}
	d.pdf.Ln(-1)

	d.pdf.SetFont(fontFamily, "", 11)
	for i := range rows {
		total, err := RowTotal(rows[i][1], rows[i][2])
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		rows[i][2] = displayAmount(rows[i][2])
		rows[i][3] = total
		d.drawRow(rows[i])
	}
	d.pdf.Ln(blockGap)

	d.blocks = append(d.blocks, Block{Kind: KindTable, Title: title})
	return d.pdf.Error()
}

func (d *Document) drawRow(row Row) {
	height := d.rowHeight(row)

	// Rows are never split: start a new page if the frame would cross the
	// bottom margin.
	_, pageHeight := d.pdf.GetPageSize()
	if d.pdf.GetY()+height > pageHeight-BottomMargin {
		d.pdf.AddPage()
		d.pdf.SetFont(fontFamily, "", 11)
	}

	yStart := d.pdf.GetY()
	for i, cell := range row {
		xStart := d.pdf.GetX()
		d.pdf.MultiCell(ColumnWidths[i], lineHeight, d.text(cell), "0", "L", false)
		d.pdf.Rect(xStart, yStart, ColumnWidths[i], height, "D")
		d.pdf.SetXY(xStart+ColumnWidths[i], yStart)
	}
	d.frames = append(d.frames, frame{page: d.pdf.PageNo(), top: yStart, bottom: yStart + height})
	d.pdf.Ln(height)
}

// rowHeight estimates the wrapped line count of every cell and returns the
// tallest one in document units.
func (d *Document) rowHeight(row Row) float64 {
	maxLines := 1
	for i, cell := range row {
		width := d.pdf.GetStringWidth(d.text(cell))
		lines := int(width/ColumnWidths[i]) + 1
		if lines > maxLines {
			maxLines = lines
		}
	}
	return float64(maxLines) * lineHeight
}

func (d *Document) drawTitle(title string) {
	d.pdf.SetFont(fontFamily, "B", 12)
	d.pdf.CellFormat(0, titleHeight, d.text(title), "", 1, "L", false, 0, "")
	d.pdf.Ln(1)
}

// text converts UTF-8 to the Windows-1252 bytes the core fonts expect.
// Runes outside the code page become '?'.
func (d *Document) text(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return string(out)
}

// Blocks returns the sections and tables drawn so far, in order.
func (d *Document) Blocks() []Block {
	return append([]Block(nil), d.blocks...)
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.pdf.PageNo()
}

// Output writes the PDF to w.
func (d *Document) Output(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

// Bytes returns the encoded PDF.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RowTotal multiplies quantity by rate and formats the result with two
// decimals, rounding half away from zero.
func RowTotal(quantity, rate string) (string, error) {
	qty, err := decimal.NewFromString(quantity)
	if err != nil {
		return "", fmt.Errorf("%w: quantity %q: %v", ErrInvalidAmount, quantity, err)
	}
	unit, err := decimal.NewFromString(rate)
	if err != nil {
		return "", fmt.Errorf("%w: unit rate %q: %v", ErrInvalidAmount, rate, err)
	}
	return qty.Mul(unit).StringFixed(2), nil
}

// displayAmount returns the shortest decimal form of an amount already
// accepted by RowTotal, so 21.880000000000000000001 prints as 21.88.
// Text that already is that value, like 20.50, is kept as written.
func displayAmount(amount string) string {
	v, err := decimal.NewFromString(amount)
	if err != nil {
		return amount
	}
	short := decimal.NewFromFloat(v.InexactFloat64())
	if short.Equal(v) {
		return amount
	}
	return short.String()
}
