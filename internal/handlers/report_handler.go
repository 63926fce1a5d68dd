package handlers

import (
	"net/http"
	"strconv"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/middleware"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/services"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// @Summary Owner Revenue
// @Description Get the revenue snapshot for one owner: settled invoices split between fee and owner share
// @Tags Reports
// @Produce json
// @Param id path int true "Owner ID"
// @Success 200 {object} services.OwnerRevenue
// @Security BearerAuth
// @Router /owners/{id}/revenue [get]
func (h *ReportHandler) OwnerRevenue(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid owner id"})
		return
	}

	snapshot, err := h.reportService.ComputeOwnerRevenue(c.Request.Context(), middleware.GetOrgID(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// @Summary Owner Revenue CSV
// @Description Download the owner revenue report as CSV
// @Tags Reports
// @Produce text/csv
// @Param owner_id query int true "Owner ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/revenue_csv [get]
func (h *ReportHandler) RevenueCSV(c *gin.Context) {
	ownerID, err := strconv.ParseUint(c.Query("owner_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id is required"})
		return
	}

	data, filename, err := h.reportService.GenerateRevenueCSV(c.Request.Context(), middleware.GetOrgID(c), uint(ownerID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}

// @Summary Owner Revenue XLSX
// @Description Download the owner revenue report as an Excel workbook
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param owner_id query int true "Owner ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /reports/revenue_xlsx [get]
func (h *ReportHandler) RevenueXLSX(c *gin.Context) {
	ownerID, err := strconv.ParseUint(c.Query("owner_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id is required"})
		return
	}

	data, filename, err := h.reportService.GenerateRevenueXLSX(c.Request.Context(), middleware.GetOrgID(c), uint(ownerID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
