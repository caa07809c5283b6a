// Package app exposes the application service the adapters (CLI, HTTP) call.
// It orchestrates one report request end to end: load the snapshot, validate
// it, aggregate, reconcile declared ranges, and assemble both statutory files.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"taxfiler/internal/core"
	"taxfiler/internal/logger"
	"taxfiler/internal/workbook"
)

// Service is the application-level interface over the report generator.
type Service interface {
	GenerateReport(ctx context.Context, req GenerateReportRequest) (*GenerateReportResult, error)
	SaveReportFiles(result *GenerateReportResult, dir string) (*SavedFiles, error)
}

type service struct {
	filing core.FilingService
	now    func() time.Time
}

// NewService constructs the application service.
func NewService(filing core.FilingService) Service {
	return &service{filing: filing, now: time.Now}
}

// GenerateReport runs the full pipeline for one client and period. The
// computation is pure after the initial snapshot load; re-running it is safe.
func (s *service) GenerateReport(ctx context.Context, req GenerateReportRequest) (*GenerateReportResult, error) {
	log := logger.WithComponent("report")

	snap, err := s.filing.LoadSnapshot(ctx, req.TaxID, req.YearMonth)
	if err != nil {
		return nil, err
	}
	if err := core.ValidateInvoiceDates(snap.Period, snap.Invoices); err != nil {
		return nil, err
	}

	totals, err := core.Aggregate(snap.Invoices, snap.Allowances)
	if err != nil {
		return nil, err
	}

	fillers, err := core.ReconcileRanges(snap.Client, snap.Period, snap.Ranges, snap.Invoices)
	if err != nil {
		return nil, err
	}
	rows := append(append([]core.Invoice{}, snap.Invoices...), fillers...)

	txt, err := core.BuildTxtReport(snap.Client, snap.Period, rows, snap.Allowances)
	if err != nil {
		return nil, err
	}
	rowCount := 0
	if txt != "" {
		rowCount = 1
		for _, c := range txt {
			if c == '\n' {
				rowCount++
			}
		}
	}

	tetu := core.BuildTetUReport(snap.Client, snap.Period, snap.Config, totals, rowCount, s.now())

	log.Info().
		Str("tax_id", snap.Client.TaxID).
		Str("period", snap.Period.YearMonth).
		Int("rows", rowCount).
		Int("fillers", len(fillers)).
		Msg("filing report generated")

	return &GenerateReportResult{
		Client:      snap.Client,
		Period:      snap.Period,
		Txt:         txt,
		TetU:        tetu,
		Totals:      totals,
		RowCount:    rowCount,
		FillerCount: len(fillers),
	}, nil
}

// SaveReportFiles writes the TXT, TET_U, and review-workbook files for a
// generated report into dir, named <taxid>-<period>.{txt,tet,xlsx}.
func (s *service) SaveReportFiles(result *GenerateReportResult, dir string) (*SavedFiles, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	base := fmt.Sprintf("%s-%s", result.Client.TaxID, result.Period.YearMonth)

	saved := &SavedFiles{
		TxtPath:  filepath.Join(dir, base+".txt"),
		TetUPath: filepath.Join(dir, base+".tet"),
	}
	if err := os.WriteFile(saved.TxtPath, []byte(result.Txt), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write TXT file: %w", err)
	}
	if err := os.WriteFile(saved.TetUPath, []byte(result.TetU), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write TET_U file: %w", err)
	}

	wb, err := workbook.Build(result.Client, result.Period, result.Totals, result.Txt)
	if err != nil {
		return nil, fmt.Errorf("failed to build review workbook: %w", err)
	}
	saved.WorkbookPath = filepath.Join(dir, base+".xlsx")
	if err := wb.SaveAs(saved.WorkbookPath); err != nil {
		return nil, fmt.Errorf("failed to write review workbook: %w", err)
	}
	return saved, nil
}
