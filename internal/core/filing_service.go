package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Snapshot is the immutable read set report generation runs on: one client,
// one period, and the period's confirmed records. The generator never mutates
// it, so re-running a report is always safe.
type Snapshot struct {
	Client     Client
	Period     FilingPeriod
	Invoices   []Invoice
	Allowances []Allowance
	Ranges     []InvoiceRange
	Config     TetUConfig
}

// FilingService resolves a client and filing period to the confirmed record
// snapshot the report generator consumes.
type FilingService interface {
	// LoadSnapshot fetches the client by tax ID, resolves the ROC year-month
	// to its filing period, and loads the period's confirmed invoices,
	// allowances, declared ranges, and declaration config. The four record
	// reads are independent and issued concurrently.
	LoadSnapshot(ctx context.Context, taxID, yearMonth string) (*Snapshot, error)
}

type filingService struct {
	pool *pgxpool.Pool
}

// NewFilingService constructs a FilingService backed by the given pool.
func NewFilingService(pool *pgxpool.Pool) FilingService {
	return &filingService{pool: pool}
}

func (s *filingService) LoadSnapshot(ctx context.Context, taxID, yearMonth string) (*Snapshot, error) {
	client, err := s.fetchClient(ctx, taxID)
	if err != nil {
		return nil, err
	}
	period, err := s.fetchPeriod(ctx, client.ID, yearMonth)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Client: client, Period: period}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Invoices, err = s.fetchInvoices(gctx, client.ID, period.ID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Allowances, err = s.fetchAllowances(gctx, client.ID, period.ID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Ranges, err = s.fetchRanges(gctx, client.ID, period.ID)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Config, err = s.fetchTetUConfig(gctx, client.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *filingService) fetchClient(ctx context.Context, taxID string) (Client, error) {
	var c Client
	err := s.pool.QueryRow(ctx, `
		SELECT id, tax_id, tax_payer_id, name, county
		FROM clients WHERE tax_id = $1
	`, taxID).Scan(&c.ID, &c.TaxID, &c.TaxPayerID, &c.Name, &c.County)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, fmt.Errorf("client %s: %w", taxID, ErrClientNotFound)
		}
		return Client{}, fmt.Errorf("failed to fetch client: %w", err)
	}
	return c, nil
}

func (s *filingService) fetchPeriod(ctx context.Context, clientID int64, yearMonth string) (FilingPeriod, error) {
	var p FilingPeriod
	var startMonth, endMonth int
	err := s.pool.QueryRow(ctx, `
		SELECT id, client_id, year_month, year, start_month, end_month
		FROM filing_periods WHERE client_id = $1 AND year_month = $2
	`, clientID, yearMonth).Scan(&p.ID, &p.ClientID, &p.YearMonth, &p.Year, &startMonth, &endMonth)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FilingPeriod{}, fmt.Errorf("period %s: %w", yearMonth, ErrPeriodNotFound)
		}
		return FilingPeriod{}, fmt.Errorf("failed to fetch filing period: %w", err)
	}
	p.StartMonth, p.EndMonth = time.Month(startMonth), time.Month(endMonth)
	return p, nil
}

func (s *filingService) fetchInvoices(ctx context.Context, clientID, periodID int64) ([]Invoice, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, serial_code, date, seller_tax_id, COALESCE(buyer_tax_id, ''),
		       total_sales, tax, total_amount, tax_type, invoice_type,
		       direction, deductible, COALESCE(summary, '')
		FROM invoices
		WHERE client_id = $1 AND period_id = $2 AND status = 'confirmed'
		ORDER BY serial_code
	`, clientID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		var taxType, invoiceType, direction string
		if err := rows.Scan(
			&inv.ID, &inv.SerialCode, &inv.Date, &inv.SellerTaxID, &inv.BuyerTaxID,
			&inv.TotalSales, &inv.Tax, &inv.TotalAmount, &taxType, &invoiceType,
			&direction, &inv.Deductible, &inv.Summary,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		if inv.TaxType, err = ParseTaxType(taxType); err != nil {
			return nil, fmt.Errorf("invoice %s: %w", inv.SerialCode, err)
		}
		if inv.InvoiceType, err = ParseInvoiceType(invoiceType); err != nil {
			return nil, fmt.Errorf("invoice %s: %w", inv.SerialCode, err)
		}
		if inv.Direction, err = ParseDirection(direction); err != nil {
			return nil, fmt.Errorf("invoice %s: %w", inv.SerialCode, err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("invoice row iteration error: %w", err)
	}
	return invoices, nil
}

func (s *filingService) fetchAllowances(ctx context.Context, clientID, periodID int64) ([]Allowance, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, original_serial_code, date, amount, tax_amount,
		       deduction_code, direction, tax_type
		FROM allowances
		WHERE client_id = $1 AND period_id = $2 AND status = 'confirmed'
		ORDER BY original_serial_code
	`, clientID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query allowances: %w", err)
	}
	defer rows.Close()

	var allowances []Allowance
	for rows.Next() {
		var alw Allowance
		var direction, taxType string
		if err := rows.Scan(
			&alw.ID, &alw.OriginalSerialCode, &alw.Date, &alw.Amount, &alw.TaxAmount,
			&alw.DeductionCode, &direction, &taxType,
		); err != nil {
			return nil, fmt.Errorf("failed to scan allowance: %w", err)
		}
		if alw.Direction, err = ParseDirection(direction); err != nil {
			return nil, fmt.Errorf("allowance %s: %w", alw.OriginalSerialCode, err)
		}
		if alw.TaxType, err = ParseTaxType(taxType); err != nil {
			return nil, fmt.Errorf("allowance %s: %w", alw.OriginalSerialCode, err)
		}
		allowances = append(allowances, alw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("allowance row iteration error: %w", err)
	}

	for i := range allowances {
		items, err := s.fetchAllowanceItems(ctx, allowances[i].ID)
		if err != nil {
			return nil, err
		}
		allowances[i].Items = items
	}
	return allowances, nil
}

func (s *filingService) fetchAllowanceItems(ctx context.Context, allowanceID int64) ([]AllowanceItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT amount, tax_amount FROM allowance_items
		WHERE allowance_id = $1 ORDER BY id
	`, allowanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query allowance items: %w", err)
	}
	defer rows.Close()

	var items []AllowanceItem
	for rows.Next() {
		var it AllowanceItem
		if err := rows.Scan(&it.Amount, &it.TaxAmount); err != nil {
			return nil, fmt.Errorf("failed to scan allowance item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *filingService) fetchRanges(ctx context.Context, clientID, periodID int64) ([]InvoiceRange, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, invoice_type, start_number, end_number
		FROM invoice_ranges
		WHERE client_id = $1 AND period_id = $2
		ORDER BY invoice_type, start_number
	`, clientID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice ranges: %w", err)
	}
	defer rows.Close()

	var ranges []InvoiceRange
	for rows.Next() {
		var r InvoiceRange
		var invoiceType string
		if err := rows.Scan(&r.ID, &invoiceType, &r.StartNumber, &r.EndNumber); err != nil {
			return nil, fmt.Errorf("failed to scan invoice range: %w", err)
		}
		if r.InvoiceType, err = ParseInvoiceType(invoiceType); err != nil {
			return nil, fmt.Errorf("range %s-%s: %w", r.StartNumber, r.EndNumber, err)
		}
		ranges = append(ranges, r)
	}
	return ranges, rows.Err()
}

func (s *filingService) fetchTetUConfig(ctx context.Context, clientID int64) (TetUConfig, error) {
	var cfg TetUConfig
	err := s.pool.QueryRow(ctx, `
		SELECT declaration_type, declaration_code, declarant_name, declarant_phone,
		       agent_registration, prior_period_credit, mid_year_closure_tax
		FROM tetu_configs WHERE client_id = $1
	`, clientID).Scan(
		&cfg.DeclarationType, &cfg.DeclarationCode, &cfg.DeclarantName,
		&cfg.DeclarantPhone, &cfg.AgentRegistration,
		&cfg.PriorPeriodCredit, &cfg.MidYearClosureTax,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DefaultTetUConfig(), nil
		}
		return TetUConfig{}, fmt.Errorf("failed to fetch declaration config: %w", err)
	}
	return cfg, nil
}
