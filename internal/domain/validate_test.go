package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdelacruz/receipt-ledger-service/internal/domain"
)

func validDraft() *domain.ReceiptDraft {
	return &domain.ReceiptDraft{
		VendorName:               "Sunrise Grocery",
		Address:                  "123 Mabini St",
		TIN:                      "123-456-789 VAT Reg",
		InvoiceNumber:            "INV-0042",
		Date:                     "2026-08-01",
		SoldTo:                   "Walk-in",
		SaleType:                 domain.SaleTypeCash,
		Items: []domain.LineItem{
			{Name: "Cola", Quantity: 2, UnitPrice: 1.5, Amount: 3},
		},
		TotalAmount:              3,
		PaymentMethod:            "Cash",
		AuthorizedRepresentative: "N/A",
	}
}

func TestValidate_ValidDraft(t *testing.T) {
	errs := domain.Validate(validDraft())
	assert.Empty(t, errs)
}

func TestValidate_SingleRuleViolations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.ReceiptDraft)
		wantKey string
		wantMsg string
	}{
		{
			name:    "MissingVendorName",
			mutate:  func(d *domain.ReceiptDraft) { d.VendorName = "   " },
			wantKey: "vendorName",
			wantMsg: "Vendor Name is required.",
		},
		{
			name:    "MissingInvoiceNumber",
			mutate:  func(d *domain.ReceiptDraft) { d.InvoiceNumber = "" },
			wantKey: "invoiceNumber",
			wantMsg: "Invoice Number is required.",
		},
		{
			name:    "MissingDate",
			mutate:  func(d *domain.ReceiptDraft) { d.Date = "" },
			wantKey: "date",
			wantMsg: "Date is required.",
		},
		{
			name:    "ZeroTotal",
			mutate:  func(d *domain.ReceiptDraft) { d.TotalAmount = 0 },
			wantKey: "totalAmount",
			wantMsg: "Total Amount must be a positive number.",
		},
		{
			name:    "NegativeTotal",
			mutate:  func(d *domain.ReceiptDraft) { d.TotalAmount = -5 },
			wantKey: "totalAmount",
			wantMsg: "Total Amount must be a positive number.",
		},
		{
			name:    "EmptyItemName",
			mutate:  func(d *domain.ReceiptDraft) { d.Items[0].Name = "" },
			wantKey: "items.0.name",
			wantMsg: "Item name is required.",
		},
		{
			name:    "ZeroItemQuantity",
			mutate:  func(d *domain.ReceiptDraft) { d.Items[0].Quantity = 0 },
			wantKey: "items.0.quantity",
			wantMsg: "Quantity must be a positive number.",
		},
		{
			name:    "NegativeItemUnitPrice",
			mutate:  func(d *domain.ReceiptDraft) { d.Items[0].UnitPrice = -1 },
			wantKey: "items.0.unitPrice",
			wantMsg: "Unit price must be zero or greater.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(draft)

			errs := domain.Validate(draft)

			// Exactly the violated rule's key, nothing else.
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantMsg, errs[tt.wantKey])
		})
	}
}

func TestValidate_ItemErrorsKeyedByPosition(t *testing.T) {
	draft := validDraft()
	draft.Items = append(draft.Items, domain.LineItem{Name: "", Quantity: 0, UnitPrice: -2})

	errs := domain.Validate(draft)

	assert.Len(t, errs, 3)
	assert.Contains(t, errs, "items.1.name")
	assert.Contains(t, errs, "items.1.quantity")
	assert.Contains(t, errs, "items.1.unitPrice")
}

func TestValidate_ZeroUnitPriceAllowed(t *testing.T) {
	draft := validDraft()
	draft.Items[0].UnitPrice = 0

	errs := domain.Validate(draft)
	assert.Empty(t, errs)
}

func TestValidate_NoItemsIsValid(t *testing.T) {
	draft := validDraft()
	draft.Items = nil

	errs := domain.Validate(draft)
	assert.Empty(t, errs)
}

func TestValidate_DoesNotMutateDraft(t *testing.T) {
	draft := validDraft()
	draft.VendorName = ""
	before := *draft

	domain.Validate(draft)

	assert.Equal(t, before.VendorName, draft.VendorName)
	assert.Equal(t, before.Items, draft.Items)
}
