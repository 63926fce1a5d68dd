package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/middleware"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type LeaseHandler struct {
	leaseService   *services.LeaseService
	invoiceService *services.InvoiceService
}

func NewLeaseHandler(leaseService *services.LeaseService, invoiceService *services.InvoiceService) *LeaseHandler {
	return &LeaseHandler{leaseService: leaseService, invoiceService: invoiceService}
}

// @Summary List Leases
// @Description Get a paginated list of leases
// @Tags Leases
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /leases [get]
func (h *LeaseHandler) Index(c *gin.Context) {
	query := parseListQuery(c, "status", "unit_id", "property_id", "tenant_id")

	leases, total, err := h.leaseService.List(c.Request.Context(), middleware.GetOrgID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.LeaseResponse, 0, len(leases))
	for i := range leases {
		responses = append(responses, leases[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"leases":     responses,
		"pagination": paginationResponse(query.Page, query.PerPage, total),
	})
}

// @Summary Get Lease
// @Description Get a lease with its unit, tenant and invoices
// @Tags Leases
// @Produce json
// @Param id path int true "Lease ID"
// @Success 200 {object} models.LeaseResponse
// @Security BearerAuth
// @Router /leases/{id} [get]
func (h *LeaseHandler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lease id"})
		return
	}

	lease, err := h.leaseService.FindByID(c.Request.Context(), middleware.GetOrgID(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lease": lease.ToResponse()})
}

type createLeaseRequest struct {
	UnitID         uint            `json:"unit_id"`
	TenantID       uint            `json:"tenant_id"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	RentAmount     decimal.Decimal `json:"rent_amount"`
	BillingCycle   string          `json:"billing_cycle"`
	CautionDeposit decimal.Decimal `json:"caution_deposit"`
	AgencyFee      decimal.Decimal `json:"agency_fee"`
	LegalFee       decimal.Decimal `json:"legal_fee"`
	Notes          *string         `json:"notes"`
}

// @Summary Create Lease
// @Description Create a lease together with its move-in invoice, or a draft when no unit/tenant is assigned yet
// @Tags Leases
// @Accept json
// @Produce json
// @Param lease body createLeaseRequest true "Lease payload"
// @Success 201 {object} models.LeaseResponse
// @Security BearerAuth
// @Router /leases [post]
func (h *LeaseHandler) Create(c *gin.Context) {
	var req createLeaseRequest
	if err := BindNestedOrFlat(c, "lease", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return
	}

	cycle := req.BillingCycle
	if cycle == "" {
		cycle = models.BillingCycleAnnually
	}

	input := &services.CreateLeaseInput{
		UnitID:         req.UnitID,
		TenantID:       req.TenantID,
		StartDate:      startDate,
		EndDate:        endDate,
		RentAmount:     req.RentAmount,
		BillingCycle:   cycle,
		CautionDeposit: req.CautionDeposit,
		AgencyFee:      req.AgencyFee,
		LegalFee:       req.LegalFee,
		Notes:          req.Notes,
	}

	lease, invoice, err := h.leaseService.Create(c.Request.Context(), middleware.GetOrgID(c), input,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"lease": lease.ToResponse()}
	if invoice != nil {
		resp["invoice"] = invoice.ToResponse()
	}
	c.JSON(http.StatusCreated, resp)
}

type submitLeaseRequest struct {
	UnitID   uint `json:"unit_id"`
	TenantID uint `json:"tenant_id"`
}

// @Summary Submit Lease
// @Description Move a draft lease to pending, assigning any missing unit/tenant and issuing its move-in invoice
// @Tags Leases
// @Accept json
// @Produce json
// @Param id path int true "Lease ID"
// @Param submission body submitLeaseRequest false "Unit/tenant assignment"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /leases/{id}/submit [post]
func (h *LeaseHandler) Submit(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lease id"})
		return
	}

	var req submitLeaseRequest
	if c.Request.ContentLength > 0 {
		if err := BindNestedOrFlat(c, "submission", &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	lease, invoice, err := h.leaseService.Submit(c.Request.Context(), middleware.GetOrgID(c), uint(id),
		&services.SubmitLeaseInput{UnitID: req.UnitID, TenantID: req.TenantID},
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lease":   lease.ToResponse(),
		"invoice": invoice.ToResponse(),
	})
}

type renewLeaseRequest struct {
	EndDate        string          `json:"end_date"`
	RentAmount     decimal.Decimal `json:"rent_amount"`
	BillingCycle   string          `json:"billing_cycle"`
	CautionDeposit decimal.Decimal `json:"caution_deposit"`
	AgencyFee      decimal.Decimal `json:"agency_fee"`
	LegalFee       decimal.Decimal `json:"legal_fee"`
	Notes          *string         `json:"notes"`
}

// @Summary Renew Lease
// @Description Spawn a successor lease starting the day after this one ends
// @Tags Leases
// @Accept json
// @Produce json
// @Param id path int true "Lease ID"
// @Param renewal body renewLeaseRequest false "Renewal overrides"
// @Success 201 {object} models.LeaseResponse
// @Security BearerAuth
// @Router /leases/{id}/renew [post]
func (h *LeaseHandler) Renew(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lease id"})
		return
	}

	var req renewLeaseRequest
	if c.Request.ContentLength > 0 {
		if err := BindNestedOrFlat(c, "renewal", &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	input := &services.RenewLeaseInput{
		RentAmount:     req.RentAmount,
		BillingCycle:   req.BillingCycle,
		CautionDeposit: req.CautionDeposit,
		AgencyFee:      req.AgencyFee,
		LegalFee:       req.LegalFee,
		Notes:          req.Notes,
	}
	if req.EndDate != "" {
		endDate, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
			return
		}
		input.EndDate = endDate
	}

	renewal, invoice, err := h.leaseService.Renew(c.Request.Context(), middleware.GetOrgID(c), uint(id), input,
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"lease":   renewal.ToResponse(),
		"invoice": invoice.ToResponse(),
	})
}

type terminateLeaseRequest struct {
	TerminationDate string  `json:"termination_date"`
	Reason          *string `json:"reason"`
}

// @Summary Terminate Lease
// @Description End an active lease early and free its unit
// @Tags Leases
// @Accept json
// @Produce json
// @Param id path int true "Lease ID"
// @Param termination body terminateLeaseRequest false "Termination details"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /leases/{id}/terminate [patch]
func (h *LeaseHandler) Terminate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lease id"})
		return
	}

	var req terminateLeaseRequest
	if c.Request.ContentLength > 0 {
		if err := BindNestedOrFlat(c, "termination", &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	var date time.Time
	if req.TerminationDate != "" {
		date, err = time.Parse(dateLayout, req.TerminationDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "termination_date must be YYYY-MM-DD"})
			return
		}
	}

	if err := h.leaseService.Terminate(c.Request.Context(), middleware.GetOrgID(c), uint(id),
		date, req.Reason, middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "lease terminated"})
}

// @Summary Generate Next Invoice
// @Description Issue the rent invoice for the next billing period of the lease
// @Tags Leases
// @Produce json
// @Param id path int true "Lease ID"
// @Success 201 {object} models.InvoiceResponse
// @Security BearerAuth
// @Router /leases/{id}/invoices [post]
func (h *LeaseHandler) GenerateInvoice(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lease id"})
		return
	}

	invoice, err := h.invoiceService.GenerateNextInvoice(c.Request.Context(), middleware.GetOrgID(c), uint(id),
		middleware.GetUserID(c), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invoice": invoice.ToResponse()})
}

// @Summary Lease Statistics
// @Description Get lease counts grouped by status
// @Tags Leases
// @Produce json
// @Success 200 {object} repository.LeaseStats
// @Security BearerAuth
// @Router /leases/stats [get]
func (h *LeaseHandler) Stats(c *gin.Context) {
	stats, err := h.leaseService.GetStats(c.Request.Context(), middleware.GetOrgID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Upload Lease Agreement
// @Description Attach the signed agreement document to a lease
// @Tags Leases
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Lease ID"
// @Param file formData file true "Agreement document"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /leases/{id}/agreement [post]
func (h *LeaseHandler) UploadAgreement(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lease id"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	if _, err := h.leaseService.UploadAgreement(c.Request.Context(), middleware.GetOrgID(c), uint(id), file, header); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "agreement uploaded"})
}

// @Summary Download Lease Agreement
// @Description Download the signed agreement document of a lease
// @Tags Leases
// @Produce application/octet-stream
// @Param id path int true "Lease ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /leases/{id}/agreement [get]
func (h *LeaseHandler) DownloadAgreement(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lease id"})
		return
	}

	path, err := h.leaseService.AgreementPath(c.Request.Context(), middleware.GetOrgID(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.FileAttachment(path, fmt.Sprintf("lease_agreement_%d.pdf", id))
}
