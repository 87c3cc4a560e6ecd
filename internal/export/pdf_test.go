package export_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdelacruz/receipt-ledger-service/internal/domain"
	"github.com/rdelacruz/receipt-ledger-service/internal/export"
)

type stubImage struct {
	data     []byte
	mimeType string
}

type stubImageSource struct {
	images map[string]stubImage
}

func (s *stubImageSource) LoadImage(_ context.Context, ref string) ([]byte, string, error) {
	img, ok := s.images[ref]
	if !ok {
		return nil, "", errors.New("image not found")
	}
	return img.data, img.mimeType, nil
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// deepPNG encodes a 16-bit PNG, which image.DecodeConfig accepts but
// gofpdf cannot embed.
func deepPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA64(image.Rect(0, 0, 4, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA64(x, y, color.NRGBA64{R: 0x8000, G: 0x8000, B: 0x8000, A: 0xFFFF})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pdfRecord(id, invoice, imageRef string) domain.Record {
	return domain.Record{
		ReceiptDraft: domain.ReceiptDraft{
			VendorName:    "Sunrise Grocery",
			Address:       "123 Mabini St, Quezon City",
			InvoiceNumber: invoice,
			Date:          "2026-08-01",
			SaleType:      domain.SaleTypeCash,
			Items: []domain.LineItem{
				{Name: "Cola", Quantity: 2, UnitPrice: 1.5, Amount: 3},
				{Name: "Chips", Quantity: 1, UnitPrice: 2.25, Amount: 2.25},
			},
			TotalAmount:   5.25,
			PaymentMethod: "Cash",
		},
		ID:       id,
		ImageRef: imageRef,
	}
}

func TestExportOne(t *testing.T) {
	source := &stubImageSource{images: map[string]stubImage{
		"images/r1.png": {data: tinyPNG(t), mimeType: "image/png"},
	}}
	exporter := export.NewPDFExporter(source)

	out, err := exporter.ExportOne(context.Background(), pdfRecord("r1", "INV-1", "images/r1.png"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportOne_MissingImageDoesNotFailExport(t *testing.T) {
	exporter := export.NewPDFExporter(&stubImageSource{images: map[string]stubImage{}})

	out, err := exporter.ExportOne(context.Background(), pdfRecord("r1", "INV-1", "images/gone.png"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportOne_DataURLImage(t *testing.T) {
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(tinyPNG(t))
	exporter := export.NewPDFExporter(nil)

	out, err := exporter.ExportOne(context.Background(), pdfRecord("r1", "INV-1", dataURL))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportMany_OnePagePerRecord(t *testing.T) {
	source := &stubImageSource{images: map[string]stubImage{
		"images/r1.png": {data: tinyPNG(t), mimeType: "image/png"},
	}}
	exporter := export.NewPDFExporter(source)

	records := []domain.Record{
		pdfRecord("r1", "INV-1", "images/r1.png"),
		pdfRecord("r2", "INV-2", ""),
		pdfRecord("r3", "INV-3", "images/r3.png"), // unresolvable, must not abort the batch
	}
	out, err := exporter.ExportMany(context.Background(), records)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Contains(t, string(out), "/Count 3")
}

func TestExportMany_UndecodableImageIsIsolated(t *testing.T) {
	source := &stubImageSource{images: map[string]stubImage{
		"images/bad.png": {data: []byte("this is not a png"), mimeType: "image/png"},
	}}
	exporter := export.NewPDFExporter(source)

	out, err := exporter.ExportMany(context.Background(), []domain.Record{
		pdfRecord("r1", "INV-1", "images/bad.png"),
		pdfRecord("r2", "INV-2", ""),
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), "/Count 2")
}

func TestExportMany_UnembeddableImageIsIsolated(t *testing.T) {
	source := &stubImageSource{images: map[string]stubImage{
		"images/deep.png": {data: deepPNG(t), mimeType: "image/png"},
	}}
	exporter := export.NewPDFExporter(source)

	out, err := exporter.ExportMany(context.Background(), []domain.Record{
		pdfRecord("r1", "INV-1", "images/deep.png"),
		pdfRecord("r2", "INV-2", ""),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Contains(t, string(out), "/Count 2")
}

func TestExportOne_UnembeddableImageDoesNotFailExport(t *testing.T) {
	source := &stubImageSource{images: map[string]stubImage{
		"images/deep.png": {data: deepPNG(t), mimeType: "image/png"},
	}}
	exporter := export.NewPDFExporter(source)

	out, err := exporter.ExportOne(context.Background(), pdfRecord("r1", "INV-1", "images/deep.png"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportMany_EmptyInput(t *testing.T) {
	exporter := export.NewPDFExporter(nil)

	_, err := exporter.ExportMany(context.Background(), nil)
	require.Error(t, err)

	var exportErr *export.ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, "check_records", exportErr.Op)
}

func TestSinglePDFFilename(t *testing.T) {
	tests := []struct {
		name     string
		record   domain.Record
		expected string
	}{
		{
			name:     "invoice number used directly",
			record:   pdfRecord("r1", "INV-1", ""),
			expected: "receipt-INV-1.pdf",
		},
		{
			name:     "whitespace collapsed to underscores",
			record:   pdfRecord("r1", "SI  No. 042", ""),
			expected: "receipt-SI_No._042.pdf",
		},
		{
			name:     "blank invoice number falls back to id",
			record:   pdfRecord("abc-123", "   ", ""),
			expected: "receipt-abc-123.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, export.SinglePDFFilename(tt.record))
		})
	}
}

func TestBatchPDFFilename(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "receipts-export-2026-08-28.pdf", export.BatchPDFFilename(now))
}
