package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"nauticare/internal/repositories"
)

type ReportServiceInterface interface {
	BuildBillingReport(ctx context.Context) (*excelize.File, error)
}

// ReportService exports the billing book the corporate back office reconciles
// against its accounting.
type ReportService struct {
	invoiceRepo repositories.InvoiceRepositoryInterface
	logger      *zap.Logger
}

func NewReportService(invoiceRepo repositories.InvoiceRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{invoiceRepo: invoiceRepo, logger: logger}
}

func (s *ReportService) BuildBillingReport(ctx context.Context) (*excelize.File, error) {
	rows, err := s.invoiceRepo.GetBillingRows(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Invoices"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create report sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Reference", "Client", "Payer", "Amount", "Deposit", "Issued", "Due", "Request status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write report header: %w", err)
		}
	}

	for rowIdx, row := range rows {
		values := []interface{}{
			row.Reference, row.ClientName, row.PayerName,
			row.Amount, row.Deposit, row.IssuedAt, row.DueAt, row.Status,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write report row: %w", err)
			}
		}
	}

	s.logger.Info("billing report built", zap.Int("invoices", len(rows)))
	return f, nil
}
