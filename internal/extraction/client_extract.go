package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rdelacruz/receipt-ledger-service/internal/domain"
)

const extractionPrompt = `You are an expert receipt scanner. Analyze the receipt image and extract:
- Vendor name (first two words only if longer)
- Full vendor address ("N/A" if not present)
- TIN, including "VAT Reg" or "Non VAT Reg" if specified ("N/A" if not present)
- Invoice or receipt number ("N/A" if not present)
- Transaction date in YYYY-MM-DD format (infer the year if missing)
- Who the items were sold to ("N/A" if not present)
- Sale type, either "Cash" or "Charge" (default "Cash")
- A list of items with name, quantity, unit price and amount (empty array if none; amount = quantity * unit price; default quantity to 1)
- The final total amount paid
- Payment method ("Unknown" if not clear)
- Authorized representative ("N/A" if not present)

Format your response as a valid JSON object with the following structure:
{
  "vendorName": "...",
  "address": "...",
  "tin": "...",
  "invoiceNumber": "...",
  "date": "YYYY-MM-DD",
  "soldTo": "...",
  "saleType": "Cash",
  "items": [
    {"name": "...", "quantity": 0.0, "unitPrice": 0.0, "amount": 0.0}
  ],
  "totalAmount": 0.0,
  "paymentMethod": "...",
  "authorizedRepresentative": "..."
}

Do not include any other text in your response, only provide the JSON.`

// ExtractReceiptData extracts a structured draft from a receipt image.
// The image travels inline as a data URL so no intermediate upload is
// needed.
func (c *Client) ExtractReceiptData(ctx context.Context, imageData []byte, mimeType string) (*domain.ReceiptDraft, error) {
	if c.apiKey == "" {
		return nil, &ExtractionError{
			Op:  "validate_configuration",
			Err: fmt.Errorf("extraction API key is not configured. Please set OPENROUTER_API_KEY environment variable"),
		}
	}

	type imageURL struct {
		URL string `json:"url"`
	}

	type content struct {
		Type     string    `json:"type"`
		Text     string    `json:"text,omitempty"`
		ImageURL *imageURL `json:"image_url,omitempty"`
	}

	type message struct {
		Role    string    `json:"role"`
		Content []content `json:"content"`
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))

	requestPayload := map[string]interface{}{
		"model": c.modelID,
		"messages": []message{
			{
				Role:    "system",
				Content: []content{{Type: "text", Text: extractionPrompt}},
			},
			{
				Role: "user",
				Content: []content{
					{Type: "text", Text: "Extract the data from this receipt image."},
					{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
				},
			},
		},
	}

	requestData, err := json.Marshal(requestPayload)
	if err != nil {
		return nil, &ExtractionError{
			Op:  "marshal_request",
			Err: fmt.Errorf("failed to marshal request payload: %w", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return nil, &ExtractionError{
			Op:  "create_extract_request",
			Err: fmt.Errorf("failed to create request: %w", err),
		}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ExtractionError{
			Op:  "send_extract_request",
			Err: fmt.Errorf("failed to send request: %w", err),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ExtractionError{
			Op:  "read_response",
			Err: fmt.Errorf("failed to read response body: %w", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ExtractionError{
			Op:  "check_api_response",
			Err: fmt.Errorf("API error: %s - %s", resp.Status, string(respBody)),
		}
	}

	return parseExtractionResponse(respBody)
}
