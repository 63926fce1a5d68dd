package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ReportService struct {
	ownerRepo   repository.OwnerRepository
	orgRepo     repository.OrganizationRepository
	invoiceRepo repository.InvoiceRepository
}

func NewReportService(
	ownerRepo repository.OwnerRepository,
	orgRepo repository.OrganizationRepository,
	invoiceRepo repository.InvoiceRepository,
) *ReportService {
	return &ReportService{
		ownerRepo:   ownerRepo,
		orgRepo:     orgRepo,
		invoiceRepo: invoiceRepo,
	}
}

// RevenueLine is one settled invoice's contribution to an owner's revenue
type RevenueLine struct {
	InvoiceID   uint            `json:"invoice_id"`
	UnitID      uint            `json:"unit_id"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Amount      decimal.Decimal `json:"amount"`
	Fee         decimal.Decimal `json:"fee"`
	OwnerShare  decimal.Decimal `json:"owner_share"`
}

// OwnerRevenue is the revenue snapshot for one owner: every fully paid
// invoice across their units, split between management fee and owner share.
type OwnerRevenue struct {
	OwnerID        uint            `json:"owner_id"`
	OwnerName      string          `json:"owner_name"`
	FeePercent     decimal.Decimal `json:"fee_percent"`
	PropertyCount  int             `json:"property_count"`
	UnitCount      int             `json:"unit_count"`
	TotalCollected decimal.Decimal `json:"total_collected"`
	TotalFees      decimal.Decimal `json:"total_fees"`
	TotalOwed      decimal.Decimal `json:"total_owed"`
	Lines          []RevenueLine   `json:"lines"`
}

// ComputeOwnerRevenue builds the revenue snapshot for one owner. Only fully
// paid invoices count; partial payments are not realized revenue. Each line
// reflects the amount actually collected, which can exceed the invoice amount
// when overpayment is allowed.
func (s *ReportService) ComputeOwnerRevenue(ctx context.Context, orgID, ownerID uint) (*OwnerRevenue, error) {
	owner, err := s.ownerRepo.FindByIDWithProperties(ctx, orgID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.FindPaidByOwner(ctx, orgID, ownerID)
	if err != nil {
		return nil, err
	}

	snapshot := &OwnerRevenue{
		OwnerID:       owner.ID,
		OwnerName:     owner.FullName,
		FeePercent:    org.ManagementFeePercent,
		PropertyCount: len(owner.Properties),
	}
	for _, p := range owner.Properties {
		snapshot.UnitCount += len(p.Units)
	}

	for _, inv := range invoices {
		collected := inv.AmountPaid
		fee, share := ComputeRevenueSplit(collected, org.ManagementFeePercent)
		snapshot.Lines = append(snapshot.Lines, RevenueLine{
			InvoiceID:   inv.ID,
			UnitID:      inv.UnitID,
			PeriodStart: inv.PeriodStart,
			PeriodEnd:   inv.PeriodEnd,
			Amount:      collected,
			Fee:         fee,
			OwnerShare:  share,
		})
		snapshot.TotalCollected = snapshot.TotalCollected.Add(collected)
		snapshot.TotalFees = snapshot.TotalFees.Add(fee)
		snapshot.TotalOwed = snapshot.TotalOwed.Add(share)
	}

	return snapshot, nil
}

// GenerateRevenueCSV renders an owner revenue snapshot as CSV
func (s *ReportService) GenerateRevenueCSV(ctx context.Context, orgID, ownerID uint) ([]byte, string, error) {
	snapshot, err := s.ComputeOwnerRevenue(ctx, orgID, ownerID)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Owner Revenue Report", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{"Owner", snapshot.OwnerName})
	_ = writer.Write([]string{"Management Fee", snapshot.FeePercent.Mul(decimal.NewFromInt(100)).String() + "%"})
	_ = writer.Write([]string{""})

	_ = writer.Write([]string{"Invoice", "Unit", "Period Start", "Period End", "Amount", "Fee", "Owner Share"})
	for _, line := range snapshot.Lines {
		_ = writer.Write([]string{
			fmt.Sprintf("%d", line.InvoiceID),
			fmt.Sprintf("%d", line.UnitID),
			line.PeriodStart.Format("2006-01-02"),
			line.PeriodEnd.Format("2006-01-02"),
			line.Amount.StringFixed(2),
			line.Fee.StringFixed(2),
			line.OwnerShare.StringFixed(2),
		})
	}

	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"Total Collected", snapshot.TotalCollected.StringFixed(2)})
	_ = writer.Write([]string{"Total Fees", snapshot.TotalFees.StringFixed(2)})
	_ = writer.Write([]string{"Total Owed To Owner", snapshot.TotalOwed.StringFixed(2)})

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("owner_revenue_%d_%s.csv", ownerID, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// GenerateRevenueXLSX renders an owner revenue snapshot as an Excel workbook
func (s *ReportService) GenerateRevenueXLSX(ctx context.Context, orgID, ownerID uint) ([]byte, string, error) {
	snapshot, err := s.ComputeOwnerRevenue(ctx, orgID, ownerID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Revenue"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})

	_ = f.SetCellValue(sheet, "A1", "Owner Revenue Report")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)
	_ = f.SetCellValue(sheet, "A2", "Owner")
	_ = f.SetCellValue(sheet, "B2", snapshot.OwnerName)
	_ = f.SetCellValue(sheet, "A3", "Management Fee")
	_ = f.SetCellValue(sheet, "B3", snapshot.FeePercent.Mul(decimal.NewFromInt(100)).String()+"%")

	headers := []string{"Invoice", "Unit", "Period Start", "Period End", "Amount", "Fee", "Owner Share"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 5)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	row := 6
	for _, line := range snapshot.Lines {
		values := []interface{}{
			line.InvoiceID,
			line.UnitID,
			line.PeriodStart.Format("2006-01-02"),
			line.PeriodEnd.Format("2006-01-02"),
			line.Amount.InexactFloat64(),
			line.Fee.InexactFloat64(),
			line.OwnerShare.InexactFloat64(),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	row++
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total Collected")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), snapshot.TotalCollected.InexactFloat64())
	row++
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total Fees")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), snapshot.TotalFees.InexactFloat64())
	row++
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total Owed To Owner")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), snapshot.TotalOwed.InexactFloat64())

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("owner_revenue_%d_%s.xlsx", ownerID, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
