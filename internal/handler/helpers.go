package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/rdelacruz/receipt-ledger-service/internal/domain"
	"github.com/rdelacruz/receipt-ledger-service/internal/model"
)

// getPathParam retrieves a path parameter and validates it's not empty
func getPathParam(c *gin.Context, paramName string) (string, error) {
	value := c.Param(paramName)
	if value == "" {
		return "", fmt.Errorf("%s is required", paramName)
	}
	return value, nil
}

// getFormFile retrieves a file from multipart form data
func getFormFile(c *gin.Context, fieldName string) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := c.Request.FormFile(fieldName)
	if err != nil {
		return nil, nil, fmt.Errorf("no %s provided", fieldName)
	}
	return file, header, nil
}

// bindJSON binds JSON request body to a struct
func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid JSON format: %v", err)
	}
	return nil
}

// detectMIMEType prefers the declared multipart content type, falling
// back to sniffing the payload.
func detectMIMEType(header *multipart.FileHeader, data []byte) string {
	if header != nil {
		if declared := header.Header.Get("Content-Type"); declared != "" {
			return declared
		}
	}
	return http.DetectContentType(data)
}

// buildValidationErrors converts field-keyed validation messages into
// ErrorDetail entries, sorted by field for deterministic responses.
func buildValidationErrors(errors map[string]string) []model.ErrorDetail {
	fields := make([]string, 0, len(errors))
	for field := range errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	details := make([]model.ErrorDetail, 0, len(fields))
	for _, field := range fields {
		details = append(details, newErrorDetail(field, errors[field]))
	}
	return details
}

// draftFromPayload converts a request payload into a domain draft. The
// line item setters re-derive each amount from quantity and unit
// price, so a client-supplied amount can never drift from the values
// it was derived from.
func draftFromPayload(payload *model.ReceiptDraftPayload) *domain.ReceiptDraft {
	items := make([]domain.LineItem, 0, len(payload.Items))
	for _, p := range payload.Items {
		item := domain.LineItem{Name: p.Name, UnitPrice: p.UnitPrice}
		item.SetQuantity(p.Quantity)
		items = append(items, item)
	}

	saleType := domain.SaleTypeCash
	if payload.SaleType == string(domain.SaleTypeCharge) {
		saleType = domain.SaleTypeCharge
	}

	return &domain.ReceiptDraft{
		VendorName:               payload.VendorName,
		Address:                  payload.Address,
		TIN:                      payload.TIN,
		InvoiceNumber:            payload.InvoiceNumber,
		Date:                     payload.Date,
		SoldTo:                   payload.SoldTo,
		SaleType:                 saleType,
		Items:                    items,
		TotalAmount:              payload.TotalAmount,
		PaymentMethod:            payload.PaymentMethod,
		AuthorizedRepresentative: payload.AuthorizedRepresentative,
	}
}

// payloadFromDraft converts a domain draft into its response payload
func payloadFromDraft(draft *domain.ReceiptDraft) model.ReceiptDraftPayload {
	items := make([]model.LineItemPayload, 0, len(draft.Items))
	for _, item := range draft.Items {
		items = append(items, model.LineItemPayload{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount,
		})
	}

	return model.ReceiptDraftPayload{
		VendorName:               draft.VendorName,
		Address:                  draft.Address,
		TIN:                      draft.TIN,
		InvoiceNumber:            draft.InvoiceNumber,
		Date:                     draft.Date,
		SoldTo:                   draft.SoldTo,
		SaleType:                 string(draft.SaleType),
		Items:                    items,
		TotalAmount:              draft.TotalAmount,
		PaymentMethod:            draft.PaymentMethod,
		AuthorizedRepresentative: draft.AuthorizedRepresentative,
	}
}

// formatReceiptResponse formats a committed record for response
func formatReceiptResponse(record *domain.Record) model.ReceiptResponse {
	return model.ReceiptResponse{
		ID:                  record.ID,
		ImageRef:            record.ImageRef,
		ReceiptDraftPayload: payloadFromDraft(&record.ReceiptDraft),
	}
}

// formatReceiptsResponse formats a slice of records for response
func formatReceiptsResponse(records []domain.Record) model.ReceiptsListResponse {
	formatted := make([]model.ReceiptResponse, len(records))
	for i := range records {
		formatted[i] = formatReceiptResponse(&records[i])
	}
	return model.ReceiptsListResponse{
		Data:  formatted,
		Count: len(formatted),
	}
}
