package handlers

import (
	"errors"
	"net/http"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/services"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/storage"
	"github.com/gin-gonic/gin"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Organization *OrganizationHandler
	Owner        *OwnerHandler
	Property     *PropertyHandler
	Unit         *UnitHandler
	Tenant       *TenantHandler
	Lease        *LeaseHandler
	Invoice      *InvoiceHandler
	Transaction  *TransactionHandler
	Report       *ReportHandler
	Notification *NotificationHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, storage *storage.LocalStorage) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Organization: NewOrganizationHandler(svcs.Organization),
		Owner:        NewOwnerHandler(svcs.Owner),
		Property:     NewPropertyHandler(svcs.Property),
		Unit:         NewUnitHandler(svcs.Unit),
		Tenant:       NewTenantHandler(svcs.Tenant),
		Lease:        NewLeaseHandler(svcs.Lease, svcs.Invoice),
		Invoice:      NewInvoiceHandler(svcs.Invoice, svcs.Payment),
		Transaction:  NewTransactionHandler(svcs.Payment, svcs.Receipt),
		Report:       NewReportHandler(svcs.Report),
		Notification: NewNotificationHandler(svcs.Notification),
	}
}

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// @Summary Health Check
// @Description Checks if the API is running
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "estate-prop-api",
		"version": "1.0.0",
	})
}

// respondError maps service errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrOverpayment):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrUnitConflict),
		errors.Is(err, services.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// paginationResponse builds the standard pagination envelope
func paginationResponse(page, perPage int, total int64) gin.H {
	totalPages := int64(0)
	if perPage > 0 {
		totalPages = (total + int64(perPage) - 1) / int64(perPage)
	}
	return gin.H{
		"page":        page,
		"per_page":    perPage,
		"total":       total,
		"total_pages": totalPages,
	}
}
