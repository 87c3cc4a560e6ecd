package model

// LineItemPayload represents one purchased item within a receipt
type LineItemPayload struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Amount    float64 `json:"amount"`
}

// ReceiptDraftPayload carries the editable receipt fields, both as the
// scan result sent to the client and as the commit body sent back.
type ReceiptDraftPayload struct {
	VendorName               string            `json:"vendorName"`
	Address                  string            `json:"address"`
	TIN                      string            `json:"tin"`
	InvoiceNumber            string            `json:"invoiceNumber"`
	Date                     string            `json:"date"`
	SoldTo                   string            `json:"soldTo"`
	SaleType                 string            `json:"saleType"`
	Items                    []LineItemPayload `json:"items"`
	TotalAmount              float64           `json:"totalAmount"`
	PaymentMethod            string            `json:"paymentMethod"`
	AuthorizedRepresentative string            `json:"authorizedRepresentative"`
}

// CreateReceiptRequest is the commit body: a draft bound to the image
// reference returned by the scan endpoint.
type CreateReceiptRequest struct {
	ReceiptDraftPayload
	ImageRef string `json:"imageRef"`
}

// ScanReceiptResponse is the result of a successful scan
type ScanReceiptResponse struct {
	Draft    ReceiptDraftPayload `json:"draft"`
	ImageRef string              `json:"imageRef"`
}

// ReceiptResponse represents a committed ledger record
type ReceiptResponse struct {
	ID       string `json:"id"`
	ImageRef string `json:"imageRef"`
	ReceiptDraftPayload
}

// ReceiptsListResponse represents the list/search result
type ReceiptsListResponse struct {
	Data  []ReceiptResponse `json:"data"`
	Count int               `json:"count"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
