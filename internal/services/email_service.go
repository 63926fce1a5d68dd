package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/OsatohanmwenT/estate-prop-sub002/internal/config"
	"github.com/OsatohanmwenT/estate-prop-sub002/internal/models"
	"github.com/OsatohanmwenT/estate-prop-sub002/pkg/logger"
	"github.com/resend/resend-go/v2"
	"github.com/shopspring/decimal"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
	}
}

func (s *EmailService) SendInvoiceIssued(ctx context.Context, tenant *models.Tenant, invoice *models.Invoice, unitLabel string) error {
	data := struct {
		Name      string
		UnitLabel string
		Amount    decimal.Decimal
		DueDate   string
		Period    string
	}{
		Name:      tenant.FullName,
		UnitLabel: unitLabel,
		Amount:    invoice.Amount,
		DueDate:   invoice.DueDate.Format("02 Jan 2006"),
		Period:    fmt.Sprintf("%s to %s", invoice.PeriodStart.Format("02 Jan 2006"), invoice.PeriodEnd.Format("02 Jan 2006")),
	}

	return s.send(tenant.Email, "Your invoice is ready", "invoice_issued.html", data)
}

func (s *EmailService) SendPaymentReceived(ctx context.Context, tenant *models.Tenant, invoice *models.Invoice, txn *models.Transaction) error {
	data := struct {
		Name      string
		Amount    decimal.Decimal
		Reference string
		Balance   decimal.Decimal
		Settled   bool
	}{
		Name:      tenant.FullName,
		Amount:    txn.Amount,
		Reference: txn.Reference,
		Balance:   invoice.Balance(),
		Settled:   invoice.IsSettled(),
	}

	return s.send(tenant.Email, "Payment received", "payment_received.html", data)
}

func (s *EmailService) SendInvoiceOverdue(ctx context.Context, tenant *models.Tenant, invoice *models.Invoice, asOf time.Time) error {
	data := struct {
		Name        string
		Amount      decimal.Decimal
		Balance     decimal.Decimal
		DueDate     string
		OverdueDays int
	}{
		Name:        tenant.FullName,
		Amount:      invoice.Amount,
		Balance:     invoice.Balance(),
		DueDate:     invoice.DueDate.Format("02 Jan 2006"),
		OverdueDays: invoice.OverdueDays(asOf),
	}

	return s.send(tenant.Email, "Your rent is overdue", "invoice_overdue.html", data)
}

func (s *EmailService) send(to, subject, templateName string, data interface{}) error {
	if s.config.ResendAPIKey == "" {
		logger.Debug(fmt.Sprintf("email delivery disabled, skipping %q to %s", subject, to))
		return nil
	}

	body, err := s.renderTemplate(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	_, err = s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", to, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: %s", to, subject))
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
