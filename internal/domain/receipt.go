package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrRecordNotFound is returned when a record id has no match in the ledger.
var ErrRecordNotFound = errors.New("record not found")

// SaleType classifies how a purchase was settled.
type SaleType string

const (
	SaleTypeCash   SaleType = "Cash"
	SaleTypeCharge SaleType = "Charge"
)

// LineItem represents one purchased good or service on a receipt.
// Amount is derived: any change to Quantity or UnitPrice recomputes it.
// The extraction service may supply Amount directly on ingestion.
type LineItem struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Amount    float64 `json:"amount"`
}

// ReceiptDraft is an unsaved, possibly-invalid set of receipt fields
// prior to commit. It carries everything a Record has except identity
// and the source image reference.
type ReceiptDraft struct {
	VendorName               string     `json:"vendorName"`
	Address                  string     `json:"address"`
	TIN                      string     `json:"tin"`
	InvoiceNumber            string     `json:"invoiceNumber"`
	Date                     string     `json:"date"` // YYYY-MM-DD
	SoldTo                   string     `json:"soldTo"`
	SaleType                 SaleType   `json:"saleType"`
	Items                    []LineItem `json:"items"`
	TotalAmount              float64    `json:"totalAmount"`
	PaymentMethod            string     `json:"paymentMethod"`
	AuthorizedRepresentative string     `json:"authorizedRepresentative"`
}

// Record is a committed, identified receipt. ID and ImageRef are assigned
// at commit and never change; edits replace the draft-shaped fields only.
type Record struct {
	ReceiptDraft
	ID       string `json:"id"`
	ImageRef string `json:"imageRef"`
}

// Round2 rounds to two decimal places, the resolution of all money
// values in the ledger.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// normalizeNumber maps non-finite values to 0 so a garbled numeric
// input can never poison a derived amount.
func normalizeNumber(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// SetQuantity replaces the quantity and recomputes the derived amount
// in the same step.
func (it *LineItem) SetQuantity(q float64) {
	it.Quantity = normalizeNumber(q)
	it.recompute()
}

// SetUnitPrice replaces the unit price and recomputes the derived
// amount in the same step.
func (it *LineItem) SetUnitPrice(p float64) {
	it.UnitPrice = normalizeNumber(p)
	it.recompute()
}

// SetName replaces the item name. The amount is untouched.
func (it *LineItem) SetName(s string) {
	it.Name = s
}

func (it *LineItem) recompute() {
	it.Amount = Round2(it.Quantity * it.UnitPrice)
}

// AddItem appends a fresh line item in entry position. Quantity starts
// at 1 so a price edit alone yields a sensible amount.
func AddItem(items []LineItem) []LineItem {
	return append(items, LineItem{Quantity: 1})
}

// RemoveItem removes the item at index, keeping the order of the rest.
// An out-of-range index is reported to the caller instead of being
// swallowed.
func RemoveItem(items []LineItem, index int) ([]LineItem, error) {
	if index < 0 || index >= len(items) {
		return items, fmt.Errorf("item index %d out of range [0,%d)", index, len(items))
	}
	return append(items[:index:index], items[index+1:]...), nil
}
