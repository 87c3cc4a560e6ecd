package domain

import (
	"fmt"
	"strings"
)

// Validate checks a draft against the commit rules and returns a map of
// field path to error message. An empty map means the draft may be
// committed. Item errors are keyed items.<index>.<field> with the
// 0-based position at validation time, so callers can re-key when items
// are added or removed. The draft is never mutated.
func Validate(draft *ReceiptDraft) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(draft.VendorName) == "" {
		errs["vendorName"] = "Vendor Name is required."
	}
	if strings.TrimSpace(draft.InvoiceNumber) == "" {
		errs["invoiceNumber"] = "Invoice Number is required."
	}
	if strings.TrimSpace(draft.Date) == "" {
		errs["date"] = "Date is required."
	}
	if !isFinite(draft.TotalAmount) || draft.TotalAmount <= 0 {
		errs["totalAmount"] = "Total Amount must be a positive number."
	}

	for i, item := range draft.Items {
		if strings.TrimSpace(item.Name) == "" {
			errs[itemKey(i, "name")] = "Item name is required."
		}
		if !isFinite(item.Quantity) || item.Quantity <= 0 {
			errs[itemKey(i, "quantity")] = "Quantity must be a positive number."
		}
		if !isFinite(item.UnitPrice) || item.UnitPrice < 0 {
			errs[itemKey(i, "unitPrice")] = "Unit price must be zero or greater."
		}
	}

	return errs
}

func itemKey(index int, field string) string {
	return fmt.Sprintf("items.%d.%s", index, field)
}

func isFinite(x float64) bool {
	return x == normalizeNumber(x)
}
