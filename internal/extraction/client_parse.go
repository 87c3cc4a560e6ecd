package extraction

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rdelacruz/receipt-ledger-service/internal/domain"
)

var (
	codeFenceRegex  = regexp.MustCompile("```(?:json)?\\s*")
	jsonObjectRegex = regexp.MustCompile(`\{[\s\S]*\}`)
)

// draftDTO mirrors the prompt schema with pointer fields so a missing
// required field is distinguishable from a zero value.
type draftDTO struct {
	VendorName               *string   `json:"vendorName"`
	Address                  *string   `json:"address"`
	TIN                      *string   `json:"tin"`
	InvoiceNumber            *string   `json:"invoiceNumber"`
	Date                     *string   `json:"date"`
	SoldTo                   *string   `json:"soldTo"`
	SaleType                 *string   `json:"saleType"`
	Items                    []itemDTO `json:"items"`
	TotalAmount              *float64  `json:"totalAmount"`
	PaymentMethod            *string   `json:"paymentMethod"`
	AuthorizedRepresentative *string   `json:"authorizedRepresentative"`
}

type itemDTO struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Amount    float64 `json:"amount"`
}

// parseExtractionResponse pulls the model's message out of the chat
// completions envelope and decodes the draft from it.
func parseExtractionResponse(respBody []byte) (*domain.ReceiptDraft, error) {
	type choice struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}

	type response struct {
		Choices []choice `json:"choices"`
	}

	var parsed response
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &ExtractionError{
			Op:  "parse_response_json",
			Err: fmt.Errorf("failed to unmarshal response: %w", err),
		}
	}

	if len(parsed.Choices) == 0 {
		return nil, &ExtractionError{
			Op:  "check_response_choices",
			Err: fmt.Errorf("no choices in response"),
		}
	}

	return parseDraftContent(parsed.Choices[0].Message.Content)
}

// parseDraftContent decodes the draft JSON from the model's reply,
// tolerating markdown code fences and surrounding prose.
func parseDraftContent(content string) (*domain.ReceiptDraft, error) {
	var dto draftDTO
	if err := json.Unmarshal([]byte(content), &dto); err != nil {
		// Strip code fences and grab the outermost JSON object.
		cleaned := codeFenceRegex.ReplaceAllString(content, "")
		match := jsonObjectRegex.FindString(cleaned)
		if match == "" {
			return nil, &ExtractionError{
				Op:  "extract_draft_json",
				Err: fmt.Errorf("no JSON object in model response"),
			}
		}
		if err := json.Unmarshal([]byte(match), &dto); err != nil {
			return nil, &ExtractionError{
				Op:  "extract_draft_json",
				Err: fmt.Errorf("failed to parse draft JSON: %w", err),
			}
		}
	}

	if missing := missingFields(&dto); len(missing) > 0 {
		return nil, &ExtractionError{
			Op:  "check_required_fields",
			Err: fmt.Errorf("model response is missing required fields: %s", strings.Join(missing, ", ")),
		}
	}

	draft := &domain.ReceiptDraft{
		VendorName:               *dto.VendorName,
		Address:                  *dto.Address,
		TIN:                      *dto.TIN,
		InvoiceNumber:            *dto.InvoiceNumber,
		Date:                     *dto.Date,
		SoldTo:                   *dto.SoldTo,
		SaleType:                 normalizeSaleType(*dto.SaleType),
		Items:                    make([]domain.LineItem, 0, len(dto.Items)),
		TotalAmount:              *dto.TotalAmount,
		PaymentMethod:            *dto.PaymentMethod,
		AuthorizedRepresentative: *dto.AuthorizedRepresentative,
	}

	for _, item := range dto.Items {
		draft.Items = append(draft.Items, domain.LineItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount,
		})
	}

	return draft, nil
}

// missingFields returns the names of required schema fields the model
// left out. Items may be empty but must be present as a field; a null
// array decodes to nil, which the draft treats as no items.
func missingFields(dto *draftDTO) []string {
	var missing []string
	check := func(name string, ok bool) {
		if !ok {
			missing = append(missing, name)
		}
	}

	check("vendorName", dto.VendorName != nil)
	check("address", dto.Address != nil)
	check("tin", dto.TIN != nil)
	check("invoiceNumber", dto.InvoiceNumber != nil)
	check("date", dto.Date != nil)
	check("soldTo", dto.SoldTo != nil)
	check("saleType", dto.SaleType != nil)
	check("totalAmount", dto.TotalAmount != nil)
	check("paymentMethod", dto.PaymentMethod != nil)
	check("authorizedRepresentative", dto.AuthorizedRepresentative != nil)

	return missing
}

func normalizeSaleType(s string) domain.SaleType {
	if strings.EqualFold(strings.TrimSpace(s), string(domain.SaleTypeCharge)) {
		return domain.SaleTypeCharge
	}
	return domain.SaleTypeCash
}
