package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/rdelacruz/receipt-ledger-service/internal/domain"
)

// csvHeader is the fixed column order of the export. Consumers key on
// these names, so the order never changes.
var csvHeader = []string{
	"Receipt ID", "Invoice Number", "Date", "Vendor Name", "Address", "TIN", "Sold To",
	"Sale Type", "Receipt Total Amount", "Payment Method", "Authorized Representative",
	"Item Name", "Item Quantity", "Item Unit Price", "Item Amount",
}

// ToCSV flattens records into delimited text. A record with N items
// emits N rows repeating the record-level fields; a record with no
// items emits one row with the four item fields empty. Every field is
// double-quoted with internal quotes doubled, including numbers and
// empty values, so consumers can parse uniformly. An empty record list
// yields an empty string, not a header-only file.
func ToCSV(records []domain.Record) string {
	if len(records) == 0 {
		return ""
	}

	rows := []string{strings.Join(csvHeader, ",")}

	for _, record := range records {
		common := []string{
			record.ID,
			record.InvoiceNumber,
			record.Date,
			record.VendorName,
			record.Address,
			record.TIN,
			record.SoldTo,
			string(record.SaleType),
			formatNumber(record.TotalAmount),
			record.PaymentMethod,
			record.AuthorizedRepresentative,
		}

		if len(record.Items) == 0 {
			rows = append(rows, joinRow(common, "", "", "", ""))
			continue
		}
		for _, item := range record.Items {
			rows = append(rows, joinRow(common,
				item.Name,
				formatNumber(item.Quantity),
				formatNumber(item.UnitPrice),
				formatNumber(item.Amount),
			))
		}
	}

	return strings.Join(rows, "\n")
}

// CSVFilename returns the download name for a batch export stamped
// with the export date.
func CSVFilename(now time.Time) string {
	return "receipts-export-" + now.Format("2006-01-02") + ".csv"
}

func joinRow(common []string, itemFields ...string) string {
	fields := make([]string, 0, len(common)+len(itemFields))
	fields = append(fields, common...)
	fields = append(fields, itemFields...)

	escaped := make([]string, len(fields))
	for i, field := range fields {
		escaped[i] = escapeCSV(field)
	}
	return strings.Join(escaped, ",")
}

func escapeCSV(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// formatNumber renders without trailing zeros, so whole quantities
// export as "3" and prices as "1.5".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
