package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/repository"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/storage"
	"github.com/OsatohanmwenT/estate-prop-sub002/pkg/logger"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"
)

type ReceiptService struct {
	transactionRepo repository.TransactionRepository
	orgRepo         repository.OrganizationRepository
	storage         *storage.LocalStorage
}

func NewReceiptService(
	transactionRepo repository.TransactionRepository,
	orgRepo repository.OrganizationRepository,
	storage *storage.LocalStorage,
) *ReceiptService {
	return &ReceiptService{
		transactionRepo: transactionRepo,
		orgRepo:         orgRepo,
		storage:         storage,
	}
}

// GetReceipt returns the PDF receipt for a transaction, rendering and caching
// it on first request.
func (s *ReceiptService) GetReceipt(ctx context.Context, orgID, transactionID uint) ([]byte, string, error) {
	txn, err := s.transactionRepo.FindByID(ctx, orgID, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	filename := fmt.Sprintf("receipt_%d.pdf", txn.ID)

	if txn.ReceiptPath != nil && s.storage.Exists(*txn.ReceiptPath) {
		file, err := s.storage.Download(*txn.ReceiptPath)
		if err == nil {
			defer file.Close()
			var buf bytes.Buffer
			if _, err := buf.ReadFrom(file); err == nil {
				return buf.Bytes(), filename, nil
			}
		}
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, "", err
	}

	data, err := s.render(org, txn)
	if err != nil {
		return nil, "", err
	}

	path, err := s.storage.UploadFromBytes(data, filename, storage.SubDirReceipts)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to store receipt for transaction %d: %v", txn.ID, err))
	} else if err := s.transactionRepo.UpdateReceiptPath(ctx, txn.ID, path); err != nil {
		logger.Error(fmt.Sprintf("failed to save receipt path for transaction %d: %v", txn.ID, err))
	}

	return data, filename, nil
}

func (s *ReceiptService) render(org *models.Organization, txn *models.Transaction) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, org.Name)
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Payment Receipt")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	rows := [][2]string{
		{"Reference", txn.Reference},
		{"Date", txn.PaidAt.Format("02 Jan 2006")},
		{"Amount", txn.Amount.StringFixed(2)},
		{"Method", txn.Method},
		{"Invoice", fmt.Sprintf("#%d", txn.InvoiceID)},
	}
	if txn.Invoice.Tenant.ID != 0 {
		rows = append(rows, [2]string{"Received From", txn.Invoice.Tenant.FullName})
	}
	if txn.BankName != nil && *txn.BankName != "" {
		rows = append(rows, [2]string{"Bank", *txn.BankName})
	}

	for _, row := range rows {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(50, 8, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 8, row[1], "1", 1, "L", false, 0, "")
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 6, "This receipt was generated automatically and is valid without a signature.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
