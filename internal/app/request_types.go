package app

import "taxfiler/internal/core"

// GenerateReportRequest identifies one report run: the client's 8-digit tax
// ID and the ROC year-month of the filing period.
type GenerateReportRequest struct {
	TaxID     string `json:"tax_id"`
	YearMonth string `json:"year_month"`
}

// GenerateReportResult carries both statutory file bodies plus the aggregated
// totals for display.
type GenerateReportResult struct {
	Client      core.Client        `json:"-"`
	Period      core.FilingPeriod  `json:"-"`
	Txt         string             `json:"txt"`
	TetU        string             `json:"tetu"`
	Totals      *core.FilingTotals `json:"totals"`
	RowCount    int                `json:"row_count"`
	FillerCount int                `json:"filler_count"`
}

// SavedFiles lists the files written for one generated report.
type SavedFiles struct {
	TxtPath      string `json:"txt_path"`
	TetUPath     string `json:"tetu_path"`
	WorkbookPath string `json:"workbook_path"`
}
