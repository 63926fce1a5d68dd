package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/middleware"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type InvoiceHandler struct {
	invoiceService *services.InvoiceService
	paymentService *services.PaymentService
}

func NewInvoiceHandler(invoiceService *services.InvoiceService, paymentService *services.PaymentService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, paymentService: paymentService}
}

// @Summary List Invoices
// @Description Get a paginated list of invoices
// @Tags Invoices
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status (overdue is derived from due date)"
// @Param lease_id query int false "Filter by lease"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) Index(c *gin.Context) {
	query := parseListQuery(c, "status", "lease_id", "tenant_id", "due_from", "due_to")

	invoices, total, err := h.invoiceService.List(c.Request.Context(), middleware.GetOrgID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, invoices[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices":   responses,
		"pagination": paginationResponse(query.Page, query.PerPage, total),
	})
}

// @Summary Get Invoice
// @Description Get an invoice with its payment transactions
// @Tags Invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} models.InvoiceResponse
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	invoice, err := h.invoiceService.FindByID(c.Request.Context(), middleware.GetOrgID(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToResponse()})
}

type updateInvoiceRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	DueDate     *string          `json:"due_date"`
	Description *string          `json:"description"`
}

// @Summary Update Invoice
// @Description Edit an unpaid invoice's amount, due date or description
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path int true "Invoice ID"
// @Param invoice body updateInvoiceRequest true "Fields to update"
// @Success 200 {object} models.InvoiceResponse
// @Security BearerAuth
// @Router /invoices/{id} [patch]
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	var req updateInvoiceRequest
	if err := BindNestedOrFlat(c, "invoice", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	input := &services.UpdateInvoiceInput{
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.DueDate != nil {
		dueDate, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be YYYY-MM-DD"})
			return
		}
		input.DueDate = &dueDate
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), middleware.GetOrgID(c), uint(id), input,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToResponse()})
}

type recordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	PaidAt        string          `json:"paid_at"`
	Reference     string          `json:"reference"`
	BankName      *string         `json:"bank_name"`
	AccountNumber *string         `json:"account_number"`
}

// @Summary Record Payment
// @Description Apply a payment to an invoice; settles the invoice and activates a pending lease when fully paid
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path int true "Invoice ID"
// @Param payment body recordPaymentRequest true "Payment details"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices/{id}/payment [patch]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	var req recordPaymentRequest
	if err := BindNestedOrFlat(c, "payment", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	input := &services.RecordPaymentInput{
		Amount:        req.Amount,
		Method:        req.Method,
		Reference:     req.Reference,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
	}
	if req.PaidAt != "" {
		paidAt, err := time.Parse(dateLayout, req.PaidAt)
		if err != nil {
			paidAt, err = time.Parse(time.RFC3339, req.PaidAt)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "paid_at must be YYYY-MM-DD or RFC3339"})
				return
			}
		}
		input.PaidAt = paidAt
	}

	invoice, txn, err := h.paymentService.RecordPayment(c.Request.Context(), middleware.GetOrgID(c), uint(id), input,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"invoice":     invoice.ToResponse(),
		"transaction": txn.ToResponse(),
	})
}

// @Summary Void Invoice
// @Description Cancel an invoice that has no payments recorded against it
// @Tags Invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} models.InvoiceResponse
// @Security BearerAuth
// @Router /invoices/{id}/void [post]
func (h *InvoiceHandler) Void(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	invoice, err := h.invoiceService.MarkVoid(c.Request.Context(), middleware.GetOrgID(c), uint(id),
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice.ToResponse()})
}

// @Summary Delete Invoice
// @Description Hard-delete an invoice that never saw money
// @Tags Invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Destroy(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), middleware.GetOrgID(c), uint(id),
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "invoice deleted"})
}

// @Summary Invoice Statistics
// @Description Get monthly billing statistics: pending, collected and overdue totals
// @Tags Invoices
// @Produce json
// @Success 200 {object} repository.InvoiceStats
// @Security BearerAuth
// @Router /invoices/stats [get]
func (h *InvoiceHandler) Stats(c *gin.Context) {
	stats, err := h.invoiceService.GetStats(c.Request.Context(), middleware.GetOrgID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary List Invoice Transactions
// @Description Get the payment transactions recorded against an invoice
// @Tags Invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /invoices/{id}/transactions [get]
func (h *InvoiceHandler) Transactions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	txns, err := h.paymentService.FindByInvoice(c.Request.Context(), middleware.GetOrgID(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.TransactionResponse, 0, len(txns))
	for i := range txns {
		responses = append(responses, txns[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"transactions": responses})
}

type TransactionHandler struct {
	paymentService *services.PaymentService
	receiptService *services.ReceiptService
}

func NewTransactionHandler(paymentService *services.PaymentService, receiptService *services.ReceiptService) *TransactionHandler {
	return &TransactionHandler{paymentService: paymentService, receiptService: receiptService}
}

// @Summary Get Transaction
// @Description Get one payment transaction
// @Tags Transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} models.TransactionResponse
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	txn, err := h.paymentService.FindTransaction(c.Request.Context(), middleware.GetOrgID(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": txn.ToResponse()})
}

// @Summary Download Receipt
// @Description Download the PDF receipt for a payment transaction
// @Tags Transactions
// @Produce application/pdf
// @Param id path int true "Transaction ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /transactions/{id}/receipt [get]
func (h *TransactionHandler) Receipt(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	data, filename, err := h.receiptService.GetReceipt(c.Request.Context(), middleware.GetOrgID(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}
