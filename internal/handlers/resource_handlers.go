package handlers

import (
	"net/http"
	"strconv"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/middleware"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " id"})
		return 0, false
	}
	return uint(id), true
}

type OrganizationHandler struct {
	orgService *services.OrganizationService
}

func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// @Summary Get Organization
// @Description Get the caller's organization profile
// @Tags Organization
// @Produce json
// @Success 200 {object} models.Organization
// @Security BearerAuth
// @Router /organization [get]
func (h *OrganizationHandler) Show(c *gin.Context) {
	org, err := h.orgService.FindByID(c.Request.Context(), middleware.GetOrgID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"organization": org})
}

type updateOrganizationRequest struct {
	Name                 *string          `json:"name"`
	Email                *string          `json:"email"`
	Phone                *string          `json:"phone"`
	Address              *string          `json:"address"`
	ManagementFeePercent *decimal.Decimal `json:"management_fee_percent"`
}

// @Summary Update Organization
// @Description Update the organization profile and management fee
// @Tags Organization
// @Accept json
// @Produce json
// @Param organization body updateOrganizationRequest true "Fields to update"
// @Success 200 {object} models.Organization
// @Security BearerAuth
// @Router /organization [patch]
func (h *OrganizationHandler) Update(c *gin.Context) {
	org, err := h.orgService.FindByID(c.Request.Context(), middleware.GetOrgID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	var req updateOrganizationRequest
	if err := BindNestedOrFlat(c, "organization", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Email != nil {
		org.Email = req.Email
	}
	if req.Phone != nil {
		org.Phone = req.Phone
	}
	if req.Address != nil {
		org.Address = req.Address
	}
	if req.ManagementFeePercent != nil {
		org.ManagementFeePercent = *req.ManagementFeePercent
	}

	if err := h.orgService.Update(c.Request.Context(), org); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"organization": org})
}

type OwnerHandler struct {
	ownerService *services.OwnerService
}

func NewOwnerHandler(ownerService *services.OwnerService) *OwnerHandler {
	return &OwnerHandler{ownerService: ownerService}
}

// @Summary List Owners
// @Tags Owners
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /owners [get]
func (h *OwnerHandler) Index(c *gin.Context) {
	query := parseListQuery(c)
	owners, total, err := h.ownerService.List(c.Request.Context(), middleware.GetOrgID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"owners":     owners,
		"pagination": paginationResponse(query.Page, query.PerPage, total),
	})
}

// @Summary Get Owner
// @Tags Owners
// @Produce json
// @Param id path int true "Owner ID"
// @Success 200 {object} models.Owner
// @Security BearerAuth
// @Router /owners/{id} [get]
func (h *OwnerHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "owner")
	if !ok {
		return
	}
	owner, err := h.ownerService.FindByID(c.Request.Context(), middleware.GetOrgID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owner": owner})
}

// @Summary Create Owner
// @Tags Owners
// @Accept json
// @Produce json
// @Param owner body models.Owner true "Owner payload"
// @Success 201 {object} models.Owner
// @Security BearerAuth
// @Router /owners [post]
func (h *OwnerHandler) Create(c *gin.Context) {
	var owner models.Owner
	if err := BindNestedOrFlat(c, "owner", &owner); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	owner.ID = 0
	owner.OrganizationID = middleware.GetOrgID(c)

	if err := h.ownerService.Create(c.Request.Context(), &owner); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"owner": owner})
}

// @Summary Update Owner
// @Tags Owners
// @Accept json
// @Produce json
// @Param id path int true "Owner ID"
// @Success 200 {object} models.Owner
// @Security BearerAuth
// @Router /owners/{id} [patch]
func (h *OwnerHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "owner")
	if !ok {
		return
	}
	owner, err := h.ownerService.FindByID(c.Request.Context(), middleware.GetOrgID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := BindNestedOrFlat(c, "owner", owner); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	owner.ID = id
	owner.OrganizationID = middleware.GetOrgID(c)

	if err := h.ownerService.Update(c.Request.Context(), owner); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owner": owner})
}

// @Summary Delete Owner
// @Tags Owners
// @Produce json
// @Param id path int true "Owner ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /owners/{id} [delete]
func (h *OwnerHandler) Destroy(c *gin.Context) {
	id, ok := parseID(c, "owner")
	if !ok {
		return
	}
	if err := h.ownerService.Delete(c.Request.Context(), middleware.GetOrgID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "owner deleted"})
}

type PropertyHandler struct {
	propertyService *services.PropertyService
}

func NewPropertyHandler(propertyService *services.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// @Summary List Properties
// @Tags Properties
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /properties [get]
func (h *PropertyHandler) Index(c *gin.Context) {
	query := parseListQuery(c, "owner_id")
	properties, total, err := h.propertyService.List(c.Request.Context(), middleware.GetOrgID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"pagination": paginationResponse(query.Page, query.PerPage, total),
	})
}

// @Summary Get Property
// @Tags Properties
// @Produce json
// @Param id path int true "Property ID"
// @Success 200 {object} models.Property
// @Security BearerAuth
// @Router /properties/{id} [get]
func (h *PropertyHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "property")
	if !ok {
		return
	}
	property, err := h.propertyService.FindByID(c.Request.Context(), middleware.GetOrgID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": property})
}

// @Summary Create Property
// @Tags Properties
// @Accept json
// @Produce json
// @Param property body models.Property true "Property payload"
// @Success 201 {object} models.Property
// @Security BearerAuth
// @Router /properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	var property models.Property
	if err := BindNestedOrFlat(c, "property", &property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	property.ID = 0
	property.OrganizationID = middleware.GetOrgID(c)

	if err := h.propertyService.Create(c.Request.Context(), &property); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"property": property})
}

// @Summary Update Property
// @Tags Properties
// @Accept json
// @Produce json
// @Param id path int true "Property ID"
// @Success 200 {object} models.Property
// @Security BearerAuth
// @Router /properties/{id} [patch]
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "property")
	if !ok {
		return
	}
	property, err := h.propertyService.FindByID(c.Request.Context(), middleware.GetOrgID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := BindNestedOrFlat(c, "property", property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	property.ID = id
	property.OrganizationID = middleware.GetOrgID(c)

	if err := h.propertyService.Update(c.Request.Context(), property); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": property})
}

// @Summary Delete Property
// @Tags Properties
// @Produce json
// @Param id path int true "Property ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /properties/{id} [delete]
func (h *PropertyHandler) Destroy(c *gin.Context) {
	id, ok := parseID(c, "property")
	if !ok {
		return
	}
	if err := h.propertyService.Delete(c.Request.Context(), middleware.GetOrgID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "property deleted"})
}

type UnitHandler struct {
	unitService *services.UnitService
}

func NewUnitHandler(unitService *services.UnitService) *UnitHandler {
	return &UnitHandler{unitService: unitService}
}

// @Summary List Units
// @Tags Units
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /units [get]
func (h *UnitHandler) Index(c *gin.Context) {
	query := parseListQuery(c, "property_id", "status")
	units, total, err := h.unitService.List(c.Request.Context(), middleware.GetOrgID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"units":      units,
		"pagination": paginationResponse(query.Page, query.PerPage, total),
	})
}

// @Summary Get Unit
// @Tags Units
// @Produce json
// @Param id path int true "Unit ID"
// @Success 200 {object} models.Unit
// @Security BearerAuth
// @Router /units/{id} [get]
func (h *UnitHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "unit")
	if !ok {
		return
	}
	unit, err := h.unitService.FindByID(c.Request.Context(), middleware.GetOrgID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unit": unit})
}

// @Summary Create Unit
// @Tags Units
// @Accept json
// @Produce json
// @Param unit body models.Unit true "Unit payload"
// @Success 201 {object} models.Unit
// @Security BearerAuth
// @Router /units [post]
func (h *UnitHandler) Create(c *gin.Context) {
	var unit models.Unit
	if err := BindNestedOrFlat(c, "unit", &unit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	unit.ID = 0
	unit.OrganizationID = middleware.GetOrgID(c)

	if err := h.unitService.Create(c.Request.Context(), &unit); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"unit": unit})
}

// @Summary Update Unit
// @Tags Units
// @Accept json
// @Produce json
// @Param id path int true "Unit ID"
// @Success 200 {object} models.Unit
// @Security BearerAuth
// @Router /units/{id} [patch]
func (h *UnitHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "unit")
	if !ok {
		return
	}
	unit, err := h.unitService.FindByID(c.Request.Context(), middleware.GetOrgID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	status := unit.Status
	if err := BindNestedOrFlat(c, "unit", unit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	unit.ID = id
	unit.OrganizationID = middleware.GetOrgID(c)
	// Occupancy status follows the lease lifecycle, not manual edits
	unit.Status = status

	if err := h.unitService.Update(c.Request.Context(), unit); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unit": unit})
}

// @Summary Delete Unit
// @Tags Units
// @Produce json
// @Param id path int true "Unit ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /units/{id} [delete]
func (h *UnitHandler) Destroy(c *gin.Context) {
	id, ok := parseID(c, "unit")
	if !ok {
		return
	}
	if err := h.unitService.Delete(c.Request.Context(), middleware.GetOrgID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unit deleted"})
}

type TenantHandler struct {
	tenantService *services.TenantService
}

func NewTenantHandler(tenantService *services.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// @Summary List Tenants
// @Tags Tenants
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tenants [get]
func (h *TenantHandler) Index(c *gin.Context) {
	query := parseListQuery(c)
	tenants, total, err := h.tenantService.List(c.Request.Context(), middleware.GetOrgID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tenants":    tenants,
		"pagination": paginationResponse(query.Page, query.PerPage, total),
	})
}

// @Summary Get Tenant
// @Tags Tenants
// @Produce json
// @Param id path int true "Tenant ID"
// @Success 200 {object} models.Tenant
// @Security BearerAuth
// @Router /tenants/{id} [get]
func (h *TenantHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "tenant")
	if !ok {
		return
	}
	tenant, err := h.tenantService.FindByID(c.Request.Context(), middleware.GetOrgID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tenant": tenant})
}

// @Summary Create Tenant
// @Tags Tenants
// @Accept json
// @Produce json
// @Param tenant body models.Tenant true "Tenant payload"
// @Success 201 {object} models.Tenant
// @Security BearerAuth
// @Router /tenants [post]
func (h *TenantHandler) Create(c *gin.Context) {
	var tenant models.Tenant
	if err := BindNestedOrFlat(c, "tenant", &tenant); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	tenant.ID = 0
	tenant.OrganizationID = middleware.GetOrgID(c)

	if err := h.tenantService.Create(c.Request.Context(), &tenant); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tenant": tenant})
}

// @Summary Update Tenant
// @Tags Tenants
// @Accept json
// @Produce json
// @Param id path int true "Tenant ID"
// @Success 200 {object} models.Tenant
// @Security BearerAuth
// @Router /tenants/{id} [patch]
func (h *TenantHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "tenant")
	if !ok {
		return
	}
	tenant, err := h.tenantService.FindByID(c.Request.Context(), middleware.GetOrgID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := BindNestedOrFlat(c, "tenant", tenant); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	tenant.ID = id
	tenant.OrganizationID = middleware.GetOrgID(c)

	if err := h.tenantService.Update(c.Request.Context(), tenant); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tenant": tenant})
}

// @Summary Delete Tenant
// @Tags Tenants
// @Produce json
// @Param id path int true "Tenant ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /tenants/{id} [delete]
func (h *TenantHandler) Destroy(c *gin.Context) {
	id, ok := parseID(c, "tenant")
	if !ok {
		return
	}
	if err := h.tenantService.Delete(c.Request.Context(), middleware.GetOrgID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tenant deleted"})
}

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// @Summary List Tenant Notifications
// @Tags Notifications
// @Produce json
// @Param tenant_id query int true "Tenant ID"
// @Param unread query bool false "Only unread"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) Index(c *gin.Context) {
	tenantID, err := strconv.ParseUint(c.Query("tenant_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id is required"})
		return
	}

	query := parseListQuery(c, "unread")
	notifications, total, err := h.notificationService.FindByTenant(c.Request.Context(),
		middleware.GetOrgID(c), uint(tenantID), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"pagination":    paginationResponse(query.Page, query.PerPage, total),
	})
}

// @Summary Mark Notification Read
// @Tags Notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c, "notification")
	if !ok {
		return
	}
	if err := h.notificationService.MarkAsRead(c.Request.Context(), middleware.GetOrgID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}
