package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rdelacruz/receipt-ledger-service/internal/domain"
	"github.com/rdelacruz/receipt-ledger-service/internal/export"
	"github.com/rdelacruz/receipt-ledger-service/internal/handler"
	"github.com/rdelacruz/receipt-ledger-service/internal/model"
	"github.com/rdelacruz/receipt-ledger-service/internal/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *service.MockReceiptService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	mockService := service.NewMockReceiptService(ctrl)

	router := gin.New()
	h := handler.NewReceiptHandler(mockService, export.NewPDFExporter(nil))
	h.RegisterRoutes(router)

	return router, mockService
}

func sampleRecord(id string) *domain.Record {
	return &domain.Record{
		ReceiptDraft: domain.ReceiptDraft{
			VendorName:    "Sunrise Grocery",
			InvoiceNumber: "INV-1",
			Date:          "2026-08-01",
			SaleType:      domain.SaleTypeCash,
			Items: []domain.LineItem{
				{Name: "Cola", Quantity: 2, UnitPrice: 1.5, Amount: 3},
			},
			TotalAmount:   3,
			PaymentMethod: "Cash",
		},
		ID:       id,
		ImageRef: "images/" + id + ".png",
	}
}

func validCreateBody() map[string]interface{} {
	return map[string]interface{}{
		"vendorName":    "Sunrise Grocery",
		"invoiceNumber": "INV-1",
		"date":          "2026-08-01",
		"saleType":      "Cash",
		"items": []map[string]interface{}{
			{"name": "Cola", "quantity": 2, "unitPrice": 1.5, "amount": 3},
		},
		"totalAmount":   3,
		"paymentMethod": "Cash",
		"imageRef":      "images/r1.png",
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetReceipts_PassesQueryThrough(t *testing.T) {
	router, mockService := newTestRouter(t)
	mockService.EXPECT().
		SearchRecords(gomock.Any(), "sunrise").
		Return([]domain.Record{*sampleRecord("r1")})

	w := doJSON(t, router, http.MethodGet, "/v1/receipts?q=sunrise", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp model.ReceiptsListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "r1", resp.Data[0].ID)
	assert.Equal(t, "Sunrise Grocery", resp.Data[0].VendorName)
}

func TestGetReceiptByID_NotFound(t *testing.T) {
	router, mockService := newTestRouter(t)
	mockService.EXPECT().
		GetRecord(gomock.Any(), "missing").
		Return(nil, domain.ErrRecordNotFound)

	w := doJSON(t, router, http.MethodGet, "/v1/receipts/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateReceipt_Success(t *testing.T) {
	router, mockService := newTestRouter(t)
	mockService.EXPECT().
		CreateRecord(gomock.Any(), gomock.Any(), "images/r1.png").
		Return(sampleRecord("r1"), nil)

	w := doJSON(t, router, http.MethodPost, "/v1/receipts", validCreateBody())

	require.Equal(t, http.StatusCreated, w.Code)
	var resp model.ReceiptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "r1", resp.ID)
	assert.Equal(t, "images/r1.png", resp.ImageRef)
}

func TestCreateReceipt_ValidationErrorsAsDetails(t *testing.T) {
	router, mockService := newTestRouter(t)
	mockService.EXPECT().
		CreateRecord(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &service.ValidationError{Fields: map[string]string{
			"vendorName":  "Vendor Name is required.",
			"totalAmount": "Total Amount must be a positive number.",
		}})

	w := doJSON(t, router, http.MethodPost, "/v1/receipts", validCreateBody())

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Details, 2)
	// Details are sorted by field name.
	assert.Equal(t, "totalAmount", resp.Details[0].Field)
	assert.Equal(t, "vendorName", resp.Details[1].Field)
}

func TestCreateReceipt_MissingImage(t *testing.T) {
	router, mockService := newTestRouter(t)
	mockService.EXPECT().
		CreateRecord(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, service.ErrNoImage)

	body := validCreateBody()
	delete(body, "imageRef")
	w := doJSON(t, router, http.MethodPost, "/v1/receipts", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "imageRef", resp.Details[0].Field)
}

func TestUpdateReceipt_NotFound(t *testing.T) {
	router, mockService := newTestRouter(t)
	mockService.EXPECT().
		UpdateRecord(gomock.Any(), "missing", gomock.Any()).
		Return(nil, domain.ErrRecordNotFound)

	body := validCreateBody()
	delete(body, "imageRef")
	w := doJSON(t, router, http.MethodPut, "/v1/receipts/missing", body)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteReceipt(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, mockService := newTestRouter(t)
		mockService.EXPECT().DeleteRecord(gomock.Any(), "r1").Return(nil)

		w := doJSON(t, router, http.MethodDelete, "/v1/receipts/r1", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		router, mockService := newTestRouter(t)
		mockService.EXPECT().DeleteRecord(gomock.Any(), "missing").Return(domain.ErrRecordNotFound)

		w := doJSON(t, router, http.MethodDelete, "/v1/receipts/missing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestExportCSV(t *testing.T) {
	t.Run("EmptyLedger", func(t *testing.T) {
		router, mockService := newTestRouter(t)
		mockService.EXPECT().ListRecords(gomock.Any()).Return(nil)

		w := doJSON(t, router, http.MethodGet, "/v1/receipts/export/csv", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Download", func(t *testing.T) {
		router, mockService := newTestRouter(t)
		mockService.EXPECT().ListRecords(gomock.Any()).Return([]domain.Record{*sampleRecord("r1")})

		w := doJSON(t, router, http.MethodGet, "/v1/receipts/export/csv", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "receipts-export-")
		assert.True(t, strings.HasPrefix(w.Body.String(), "Receipt ID,"))
		assert.Contains(t, w.Body.String(), `"Cola","2","1.5","3"`)
	})
}

func TestExportSinglePDF(t *testing.T) {
	router, mockService := newTestRouter(t)
	mockService.EXPECT().
		GetRecord(gomock.Any(), "r1").
		Return(sampleRecord("r1"), nil)

	w := doJSON(t, router, http.MethodGet, "/v1/receipts/r1/export/pdf", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "receipt-INV-1.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestExportAllPDF_EmptyLedger(t *testing.T) {
	router, mockService := newTestRouter(t)
	mockService.EXPECT().ListRecords(gomock.Any()).Return(nil)

	w := doJSON(t, router, http.MethodGet, "/v1/receipts/export/pdf", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func scanRequest(t *testing.T, imageBytes []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("receiptImage", "receipt.png")
	require.NoError(t, err)
	_, err = part.Write(imageBytes)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/receipts/scan", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestScanReceipt(t *testing.T) {
	router, mockService := newTestRouter(t)
	record := sampleRecord("r1")
	mockService.EXPECT().
		ScanReceipt(gomock.Any(), []byte("image-bytes"), gomock.Any()).
		Return(&service.ScanResult{Draft: &record.ReceiptDraft, ImageRef: "images/r1.png"}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, scanRequest(t, []byte("image-bytes")))

	require.Equal(t, http.StatusOK, w.Code)
	var resp model.ScanReceiptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "images/r1.png", resp.ImageRef)
	assert.Equal(t, "Sunrise Grocery", resp.Draft.VendorName)
}

func TestScanReceipt_Superseded(t *testing.T) {
	router, mockService := newTestRouter(t)
	mockService.EXPECT().
		ScanReceipt(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, service.ErrSupersededUpload)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, scanRequest(t, []byte("stale")))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestScanReceipt_MissingFile(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/receipts/scan", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
