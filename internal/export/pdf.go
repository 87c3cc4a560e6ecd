package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"log"
	"regexp"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/jung-kurt/gofpdf"

	"github.com/rdelacruz/receipt-ledger-service/internal/domain"
)

// ExportError represents an error in the export layer
type ExportError struct {
	Op  string
	Err error
}

func (e *ExportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("export error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("export error: %s", e.Op)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// ImageSource resolves an opaque image reference to its stored bytes.
type ImageSource interface {
	LoadImage(ctx context.Context, ref string) ([]byte, string, error)
}

// PDFExporter renders receipt records into paginated PDF documents
// with the source image embedded above the extracted fields.
type PDFExporter struct {
	images ImageSource
}

// NewPDFExporter creates a PDFExporter. The image source may be nil,
// in which case only data URL references can be embedded.
func NewPDFExporter(images ImageSource) *PDFExporter {
	return &PDFExporter{images: images}
}

// pdfStyle holds the per-variant sizing knobs of the shared layout.
// Single export renders one roomy page; batch export tightens fonts
// and the image so each record fits its page comfortably.
type pdfStyle struct {
	titleSize     float64
	imageWidth    float64
	labelSize     float64
	labelValueGap float64
	tableHeadSize float64
	tableBodySize float64
	totalSize     float64
	paymentSize   float64
	summaryGap    float64
}

var (
	singleStyle = pdfStyle{
		titleSize:     22,
		imageWidth:    80,
		labelSize:     12,
		labelValueGap: 35,
		tableHeadSize: 11,
		tableBodySize: 10,
		totalSize:     14,
		paymentSize:   10,
		summaryGap:    10,
	}
	batchStyle = pdfStyle{
		titleSize:     18,
		imageWidth:    60,
		labelSize:     10,
		labelValueGap: 25,
		tableHeadSize: 9,
		tableBodySize: 8,
		totalSize:     12,
		paymentSize:   9,
		summaryGap:    7,
	}
)

// ExportOne renders a single record as a one-page document titled
// "Receipt Details".
func (e *PDFExporter) ExportOne(ctx context.Context, record domain.Record) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	e.renderRecord(ctx, pdf, record, "Receipt Details", singleStyle)
	return outputPDF(pdf)
}

// ExportMany renders one page per record, titled with each record's
// invoice number. An image failure on one record skips that image only
// and never aborts the rest of the batch.
func (e *PDFExporter) ExportMany(ctx context.Context, records []domain.Record) ([]byte, error) {
	if len(records) == 0 {
		return nil, &ExportError{
			Op:  "check_records",
			Err: errors.New("no records to export"),
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	for _, record := range records {
		pdf.AddPage()
		e.renderRecord(ctx, pdf, record, fmt.Sprintf("Receipt: %s", record.InvoiceNumber), batchStyle)
	}
	return outputPDF(pdf)
}

func outputPDF(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &ExportError{
			Op:  "render_pdf",
			Err: err,
		}
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) renderRecord(ctx context.Context, pdf *gofpdf.Fpdf, record domain.Record, title string, style pdfStyle) {
	pageWidth, _ := pdf.GetPageSize()
	y := 15.0

	pdf.SetFont("Helvetica", "B", style.titleSize)
	pdf.Text((pageWidth-pdf.GetStringWidth(title))/2, y, title)
	y += 15

	y = e.addImage(ctx, pdf, record, style.imageWidth, y)

	y = e.addDetailBlock(pdf, record, style, y)
	y = e.addItemsTable(pdf, record, style, y)

	pdf.SetFont("Helvetica", "B", style.totalSize)
	total := fmt.Sprintf("Total Amount: $%.2f", record.TotalAmount)
	pdf.Text(pageWidth-15-pdf.GetStringWidth(total), y, total)
	y += style.summaryGap

	pdf.SetFont("Helvetica", "", style.paymentSize)
	payment := fmt.Sprintf("Payment Method: %s", record.PaymentMethod)
	pdf.Text(pageWidth-15-pdf.GetStringWidth(payment), y, payment)
}

// addImage embeds the record's source image centered at the style's
// fixed width, aspect preserved. If the scaled image would overflow
// the page, the height is clamped to the remaining space; the width is
// deliberately not reflowed. Any resolution or decode failure skips
// the image and lets the rest of the layout continue.
func (e *PDFExporter) addImage(ctx context.Context, pdf *gofpdf.Fpdf, record domain.Record, width, y float64) float64 {
	if record.ImageRef == "" {
		return y
	}

	data, mimeType, err := e.resolveImage(ctx, record.ImageRef)
	if err != nil {
		log.Printf("Warning: skipping image for receipt %s: %v", record.ID, err)
		return y + 5
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		log.Printf("Warning: skipping undecodable image for receipt %s: %v", record.ID, err)
		return y + 5
	}

	imageType := imageTypeForMIME(mimeType)
	if imageType == "" {
		log.Printf("Warning: skipping image with unsupported type %q for receipt %s", mimeType, record.ID)
		return y + 5
	}

	pageWidth, pageHeight := pdf.GetPageSize()
	height := width * float64(cfg.Height) / float64(cfg.Width)
	if y+height > pageHeight-20 {
		height = pageHeight - y - 20
	}
	if height < 1 {
		return y + 5
	}

	// gofpdf rejects some images DecodeConfig accepts (16-bit or
	// interlaced PNGs) and records the failure on the document itself,
	// so the error state must be cleared or it poisons every page.
	opts := gofpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader("receipt-"+record.ID, opts, bytes.NewReader(data))
	if pdf.Err() {
		log.Printf("Warning: skipping unrenderable image for receipt %s: %v", record.ID, pdf.Error())
		pdf.ClearError()
		return y + 5
	}

	pdf.ImageOptions("receipt-"+record.ID, (pageWidth-width)/2, y, width, height, false, opts, 0, "")
	if pdf.Err() {
		log.Printf("Warning: skipping unrenderable image for receipt %s: %v", record.ID, pdf.Error())
		pdf.ClearError()
		return y + 5
	}

	return y + height + 10
}

// addDetailBlock writes the Vendor/Invoice# and Address/Date pairs as
// a two-column key/value block.
func (e *PDFExporter) addDetailBlock(pdf *gofpdf.Fpdf, record domain.Record, style pdfStyle, y float64) float64 {
	pageWidth, _ := pdf.GetPageSize()
	valueX := 15 + style.labelValueGap

	pdf.SetFont("Helvetica", "B", style.labelSize)
	pdf.Text(15, y, "Vendor:")
	pdf.SetFont("Helvetica", "", style.labelSize)
	pdf.Text(valueX, y, record.VendorName)

	pdf.SetFont("Helvetica", "B", style.labelSize)
	pdf.Text(pageWidth/2, y, "Invoice #:")
	pdf.SetFont("Helvetica", "", style.labelSize)
	pdf.Text(pageWidth/2+25, y, record.InvoiceNumber)
	y += 7

	pdf.SetFont("Helvetica", "B", style.labelSize)
	pdf.Text(15, y, "Address:")
	pdf.SetFont("Helvetica", "", style.labelSize)
	for i, line := range pdf.SplitText(record.Address, pageWidth/2-valueX-5) {
		pdf.Text(valueX, y+float64(i)*5, line)
	}

	pdf.SetFont("Helvetica", "B", style.labelSize)
	pdf.Text(pageWidth/2, y, "Date:")
	pdf.SetFont("Helvetica", "", style.labelSize)
	pdf.Text(pageWidth/2+25, y, record.Date)

	return y + 14
}

// addItemsTable renders one striped row per line item with the money
// columns formatted to two decimals.
func (e *PDFExporter) addItemsTable(pdf *gofpdf.Fpdf, record domain.Record, style pdfStyle, y float64) float64 {
	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 30
	colWidths := [4]float64{usable * 0.4, usable * 0.2, usable * 0.2, usable * 0.2}
	headers := [4]string{"Item Name", "Quantity", "Unit Price", "Amount"}

	pdf.SetXY(15, y)
	pdf.SetFont("Helvetica", "B", style.tableHeadSize)
	pdf.SetFillColor(75, 85, 99)
	pdf.SetTextColor(255, 255, 255)
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", style.tableBodySize)
	pdf.SetTextColor(0, 0, 0)
	for i, item := range record.Items {
		if i%2 == 0 {
			pdf.SetFillColor(243, 244, 246)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetX(15)
		pdf.CellFormat(colWidths[0], 7, item.Name, "", 0, "L", true, 0, "")
		pdf.CellFormat(colWidths[1], 7, formatNumber(item.Quantity), "", 0, "L", true, 0, "")
		pdf.CellFormat(colWidths[2], 7, fmt.Sprintf("$%.2f", item.UnitPrice), "", 0, "L", true, 0, "")
		pdf.CellFormat(colWidths[3], 7, fmt.Sprintf("$%.2f", item.Amount), "", 1, "L", true, 0, "")
	}

	return pdf.GetY() + 10
}

// resolveImage loads the bytes behind an image reference. Data URLs
// decode inline; anything else goes through the configured source.
func (e *PDFExporter) resolveImage(ctx context.Context, ref string) ([]byte, string, error) {
	if strings.HasPrefix(ref, "data:") {
		return decodeDataURL(ref)
	}
	if e.images == nil {
		return nil, "", errors.New("no image source configured")
	}
	return e.images.LoadImage(ctx, ref)
}

func decodeDataURL(ref string) ([]byte, string, error) {
	meta, payload, found := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !found {
		return nil, "", errors.New("malformed data URL")
	}

	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, "", errors.New("data URL is not base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode data URL payload: %w", err)
	}
	return data, mimeType, nil
}

func imageTypeForMIME(mimeType string) string {
	switch mimeType {
	case "image/png":
		return "PNG"
	case "image/jpeg", "image/jpg":
		return "JPG"
	case "image/gif":
		return "GIF"
	default:
		return ""
	}
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

// SinglePDFFilename returns the download name for a one-record export,
// derived from the invoice number with whitespace collapsed to
// underscores, falling back to the record id.
func SinglePDFFilename(record domain.Record) string {
	base := whitespaceRegex.ReplaceAllString(strings.TrimSpace(record.InvoiceNumber), "_")
	if base == "" {
		base = record.ID
	}
	return "receipt-" + base + ".pdf"
}

// BatchPDFFilename returns the download name for a batch export
// stamped with the export date.
func BatchPDFFilename(now time.Time) string {
	return "receipts-export-" + now.Format("2006-01-02") + ".pdf"
}
