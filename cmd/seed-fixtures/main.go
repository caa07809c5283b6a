// seed-fixtures loads a demo client with one confirmed filing period so the
// generator can be exercised end to end against a fresh database.
//
// Usage: go run ./cmd/seed-fixtures
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"taxfiler/internal/db"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, seedSQL); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Commit failed: %v", err)
	}
	log.Println("Fixture data loaded: client 60707504, period 11409.")
}

const seedSQL = `
INSERT INTO clients (id, tax_id, tax_payer_id, name, county)
VALUES (1, '60707504', '351406082', '示範商行', '臺北市')
ON CONFLICT (tax_id) DO NOTHING;

INSERT INTO filing_periods (id, client_id, year_month, year, start_month, end_month, status)
VALUES (1, 1, '11409', 2025, 9, 9, 'confirmed')
ON CONFLICT (client_id, year_month) DO NOTHING;

-- Input side: two deductible purchases.
INSERT INTO invoices (client_id, period_id, serial_code, date, seller_tax_id, buyer_tax_id,
                      total_sales, tax, total_amount, tax_type, invoice_type, direction,
                      deductible, summary, status) VALUES
(1, 1, 'AB11223344', '2025-09-03', '11111111', '60707504', 107, 5, 112, '應稅', '手開三聯式', '進項', TRUE, '辦公用品', 'confirmed'),
(1, 1, 'CD55667788', '2025-09-10', '22222222', '60707504', 95, 5, 100, '應稅', '電子發票', '進項', TRUE, '雜項支出', 'confirmed');

-- Output side: six taxable sales plus one voided invoice.
INSERT INTO invoices (client_id, period_id, serial_code, date, seller_tax_id, buyer_tax_id,
                      total_sales, tax, total_amount, tax_type, invoice_type, direction,
                      deductible, summary, status) VALUES
(1, 1, 'EF10000001', '2025-09-01', '60707504', '33333333', 40000, 2000, 42000, '應稅', '手開三聯式', '銷項', FALSE, '', 'confirmed'),
(1, 1, 'EF10000002', '2025-09-05', '60707504', '44444444', 30000, 1500, 31500, '應稅', '手開三聯式', '銷項', FALSE, '', 'confirmed'),
(1, 1, 'EF10000003', '2025-09-09', '60707504', '55555555', 28000, 1400, 29400, '應稅', '手開三聯式', '銷項', FALSE, '', 'confirmed'),
(1, 1, 'GH20000001', '2025-09-12', '60707504', '66666666', 25000, 1250, 26250, '應稅', '電子發票', '銷項', FALSE, '', 'confirmed'),
(1, 1, 'GH20000002', '2025-09-18', '60707504', '77777777', 15000, 750, 15750, '應稅', '電子發票', '銷項', FALSE, '', 'confirmed'),
(1, 1, 'IJ30000001', '2025-09-20', '60707504', '88888888', 10000, 500, 10500, '應稅', '二聯式收銀機', '銷項', FALSE, '', 'confirmed'),
(1, 1, 'EF10000004', '2025-09-25', '60707504', NULL, 0, 0, 0, '作廢', '手開三聯式', '銷項', FALSE, '', 'confirmed');

-- Declared manual-triplicate block, partially consumed (EF10000005-10 unused).
INSERT INTO invoice_ranges (client_id, period_id, invoice_type, start_number, end_number)
VALUES (1, 1, '手開三聯式', 'EF10000001', 'EF10000010');

INSERT INTO tetu_configs (client_id, declaration_type, declaration_code, declarant_name, declarant_phone)
VALUES (1, '401', '1', '王小明', '02-23456789')
ON CONFLICT (client_id) DO NOTHING;

SELECT setval('clients_id_seq', (SELECT MAX(id) FROM clients));
SELECT setval('filing_periods_id_seq', (SELECT MAX(id) FROM filing_periods));
`
