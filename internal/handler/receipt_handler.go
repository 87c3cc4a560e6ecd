package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rdelacruz/receipt-ledger-service/internal/domain"
	"github.com/rdelacruz/receipt-ledger-service/internal/export"
	"github.com/rdelacruz/receipt-ledger-service/internal/extraction"
	"github.com/rdelacruz/receipt-ledger-service/internal/model"
	"github.com/rdelacruz/receipt-ledger-service/internal/service"
)

// ReceiptHandler handles HTTP requests for the receipt ledger
type ReceiptHandler struct {
	receiptService service.ReceiptService
	pdfExporter    *export.PDFExporter

	// now is swappable so export filename tests are deterministic
	now func() time.Time
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService service.ReceiptService, pdfExporter *export.PDFExporter) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		pdfExporter:    pdfExporter,
		now:            time.Now,
	}
}

// ScanReceipt handles the POST /receipts/scan endpoint
// @Summary Scan a receipt image
// @Description Upload a receipt image and extract an editable draft from it using AI
// @Tags receipts
// @Accept multipart/form-data
// @Produce json
// @Param receiptImage formData file true "Receipt image file"
// @Success 200 {object} model.ScanReceiptResponse "Extracted draft and stored image reference"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 409 {object} model.ErrorResponse "Scan superseded by a newer upload"
// @Failure 422 {object} model.ErrorResponse "Unable to extract data"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/receipts/scan [post]
func (h *ReceiptHandler) ScanReceipt(c *gin.Context) {
	file, header, err := getFormFile(c, "receiptImage")
	if err != nil {
		respondBadRequest(c, err.Error(), newErrorDetail("receiptImage", "Receipt image is required"))
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		log.Printf("Warning: failed to read uploaded file: %v", err)
		respondInternalServerError(c, ErrFileProcessing)
		return
	}

	result, err := h.receiptService.ScanReceipt(c.Request.Context(), fileBytes, detectMIMEType(header, fileBytes))
	if err != nil {
		var extractionErr *extraction.ExtractionError
		switch {
		case errors.Is(err, service.ErrSupersededUpload):
			respondConflict(c, "Scan superseded by a newer upload")
		case errors.As(err, &extractionErr):
			respondUnprocessableEntity(c, ErrDataExtraction)
		default:
			log.Printf("Warning: scan failed: %v", err)
			respondInternalServerError(c, ErrFileProcessing)
		}
		return
	}

	respondOK(c, model.ScanReceiptResponse{
		Draft:    payloadFromDraft(result.Draft),
		ImageRef: result.ImageRef,
	})
}

// CreateReceipt handles the POST /receipts endpoint
// @Summary Commit a receipt draft
// @Description Validate a draft and commit it into the ledger as a new record
// @Tags receipts
// @Accept json
// @Produce json
// @Param receipt body model.CreateReceiptRequest true "Draft with bound image reference"
// @Success 201 {object} model.ReceiptResponse "Receipt created successfully"
// @Failure 400 {object} model.ErrorResponse "Validation failed"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/receipts [post]
func (h *ReceiptHandler) CreateReceipt(c *gin.Context) {
	var input model.CreateReceiptRequest
	if err := bindJSON(c, &input); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	record, err := h.receiptService.CreateRecord(c.Request.Context(), draftFromPayload(&input.ReceiptDraftPayload), input.ImageRef)
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrNoImage):
			respondBadRequest(c, err.Error(), newErrorDetail("imageRef", "An image reference is required"))
		case errors.As(err, &validationErr):
			respondBadRequest(c, ErrInvalidInput, buildValidationErrors(validationErr.Fields)...)
		default:
			respondInternalServerError(c, fmt.Sprintf("Failed to create receipt: %v", err))
		}
		return
	}

	respondCreated(c, formatReceiptResponse(record))
}

// GetReceipts handles the GET /receipts endpoint
// @Summary List or search receipts
// @Description List all records in ledger order, optionally filtered by a case-insensitive substring match on vendor name or invoice number
// @Tags receipts
// @Accept json
// @Produce json
// @Param q query string false "Search query"
// @Success 200 {object} model.ReceiptsListResponse "List of receipts"
// @Router /v1/receipts [get]
func (h *ReceiptHandler) GetReceipts(c *gin.Context) {
	records := h.receiptService.SearchRecords(c.Request.Context(), c.Query("q"))
	respondOK(c, formatReceiptsResponse(records))
}

// GetReceiptByID handles the GET /receipts/{receiptId} endpoint
// @Summary Get a receipt by ID
// @Description Retrieve a specific receipt by its ID
// @Tags receipts
// @Accept json
// @Produce json
// @Param receiptId path string true "Receipt ID"
// @Success 200 {object} model.ReceiptResponse "Receipt details"
// @Failure 404 {object} model.ErrorResponse "Receipt not found"
// @Router /v1/receipts/{receiptId} [get]
func (h *ReceiptHandler) GetReceiptByID(c *gin.Context) {
	receiptID, err := getPathParam(c, "receiptId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	record, err := h.receiptService.GetRecord(c.Request.Context(), receiptID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			respondNotFound(c, fmt.Sprintf("Receipt not found: %s", receiptID))
		} else {
			respondInternalServerError(c, fmt.Sprintf("Failed to retrieve receipt: %v", err))
		}
		return
	}

	respondOK(c, formatReceiptResponse(record))
}

// UpdateReceipt handles the PUT /receipts/{receiptId} endpoint
// @Summary Update a receipt
// @Description Replace the draft-shaped fields of an existing record; id and image reference are preserved
// @Tags receipts
// @Accept json
// @Produce json
// @Param receiptId path string true "Receipt ID"
// @Param receipt body model.ReceiptDraftPayload true "Updated receipt data"
// @Success 200 {object} model.ReceiptResponse "Receipt updated successfully"
// @Failure 400 {object} model.ErrorResponse "Validation failed"
// @Failure 404 {object} model.ErrorResponse "Receipt not found"
// @Router /v1/receipts/{receiptId} [put]
func (h *ReceiptHandler) UpdateReceipt(c *gin.Context) {
	receiptID, err := getPathParam(c, "receiptId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var input model.ReceiptDraftPayload
	if err := bindJSON(c, &input); err != nil {
		respondBadRequest(c, ErrInvalidInput)
		return
	}

	record, err := h.receiptService.UpdateRecord(c.Request.Context(), receiptID, draftFromPayload(&input))
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			respondNotFound(c, fmt.Sprintf("Receipt not found: %s", receiptID))
		case errors.As(err, &validationErr):
			respondBadRequest(c, ErrInvalidInput, buildValidationErrors(validationErr.Fields)...)
		default:
			respondInternalServerError(c, fmt.Sprintf("Failed to update receipt: %v", err))
		}
		return
	}

	respondOK(c, formatReceiptResponse(record))
}

// DeleteReceipt handles the DELETE /receipts/{receiptId} endpoint
// @Summary Delete a receipt
// @Description Delete a receipt by ID
// @Tags receipts
// @Accept json
// @Produce json
// @Param receiptId path string true "Receipt ID"
// @Success 204 "Receipt deleted successfully"
// @Failure 404 {object} model.ErrorResponse "Receipt not found"
// @Router /v1/receipts/{receiptId} [delete]
func (h *ReceiptHandler) DeleteReceipt(c *gin.Context) {
	receiptID, err := getPathParam(c, "receiptId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.receiptService.DeleteRecord(c.Request.Context(), receiptID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			respondNotFound(c, fmt.Sprintf("Receipt not found: %s", receiptID))
		} else {
			respondInternalServerError(c, fmt.Sprintf("Failed to delete receipt: %v", err))
		}
		return
	}

	respondNoContent(c)
}

// ExportCSV handles the GET /receipts/export/csv endpoint
// @Summary Export all receipts as CSV
// @Description Download the full ledger as a CSV file, one row per line item
// @Tags export
// @Produce text/csv
// @Success 200 {string} string "CSV file"
// @Failure 404 {object} model.ErrorResponse "No receipts to export"
// @Router /v1/receipts/export/csv [get]
func (h *ReceiptHandler) ExportCSV(c *gin.Context) {
	records := h.receiptService.ListRecords(c.Request.Context())
	if len(records) == 0 {
		respondNotFound(c, "No receipts to export")
		return
	}

	filename := export.CSVFilename(h.now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(StatusOK, "text/csv; charset=utf-8", []byte(export.ToCSV(records)))
}

// ExportAllPDF handles the GET /receipts/export/pdf endpoint
// @Summary Export all receipts as PDF
// @Description Download the full ledger as a PDF document, one page per receipt
// @Tags export
// @Produce application/pdf
// @Success 200 {string} binary "PDF file"
// @Failure 404 {object} model.ErrorResponse "No receipts to export"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/receipts/export/pdf [get]
func (h *ReceiptHandler) ExportAllPDF(c *gin.Context) {
	records := h.receiptService.ListRecords(c.Request.Context())
	if len(records) == 0 {
		respondNotFound(c, "No receipts to export")
		return
	}

	pdfBytes, err := h.pdfExporter.ExportMany(c.Request.Context(), records)
	if err != nil {
		respondInternalServerError(c, fmt.Sprintf("Failed to generate PDF: %v", err))
		return
	}

	filename := export.BatchPDFFilename(h.now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(StatusOK, "application/pdf", pdfBytes)
}

// ExportSinglePDF handles the GET /receipts/{receiptId}/export/pdf endpoint
// @Summary Export one receipt as PDF
// @Description Download a single receipt as a PDF document
// @Tags export
// @Produce application/pdf
// @Param receiptId path string true "Receipt ID"
// @Success 200 {string} binary "PDF file"
// @Failure 404 {object} model.ErrorResponse "Receipt not found"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/receipts/{receiptId}/export/pdf [get]
func (h *ReceiptHandler) ExportSinglePDF(c *gin.Context) {
	receiptID, err := getPathParam(c, "receiptId")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	record, err := h.receiptService.GetRecord(c.Request.Context(), receiptID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			respondNotFound(c, fmt.Sprintf("Receipt not found: %s", receiptID))
		} else {
			respondInternalServerError(c, fmt.Sprintf("Failed to retrieve receipt: %v", err))
		}
		return
	}

	pdfBytes, err := h.pdfExporter.ExportOne(c.Request.Context(), *record)
	if err != nil {
		respondInternalServerError(c, fmt.Sprintf("Failed to generate PDF: %v", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.SinglePDFFilename(*record)))
	c.Data(StatusOK, "application/pdf", pdfBytes)
}

// RegisterRoutes registers the API routes for the receipt handler
func (h *ReceiptHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/v1")

	receipts := api.Group("/receipts")
	{
		receipts.POST("/scan", h.ScanReceipt)
		receipts.POST("", h.CreateReceipt)
		receipts.GET("", h.GetReceipts)
		receipts.GET("/export/csv", h.ExportCSV)
		receipts.GET("/export/pdf", h.ExportAllPDF)
		receipts.GET("/:receiptId", h.GetReceiptByID)
		receipts.PUT("/:receiptId", h.UpdateReceipt)
		receipts.DELETE("/:receiptId", h.DeleteReceipt)
		receipts.GET("/:receiptId/export/pdf", h.ExportSinglePDF)
	}
}
