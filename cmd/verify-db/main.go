// verify-db checks that the filing schema is present and reports row counts,
// useful after running migrations or seeding fixtures.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

var requiredTables = []string{
	"clients",
	"filing_periods",
	"invoices",
	"allowances",
	"allowance_items",
	"invoice_ranges",
	"tetu_configs",
}

func main() {
	_ = godotenv.Load()

	url := os.Getenv("DATABASE_URL")
	ctx := context.Background()
	pool := connectDB(ctx, url)
	defer pool.Close()

	ok := true
	for _, table := range requiredTables {
		if !checkTable(ctx, pool, table) {
			ok = false
		}
	}

	if !ok {
		log.Fatal("[DONE] schema incomplete, run migrations first")
	}
	checkConfirmed(ctx, pool)
	log.Println("[DONE] schema verified.")
}

func connectDB(ctx context.Context, url string) *pgxpool.Pool {
	connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		log.Fatalf("[CONNECT] failed to create pool: %v", err)
	}
	if err := pool.Ping(connCtx); err != nil {
		log.Fatalf("[CONNECT] failed to ping database: %v", err)
	}

	log.Println("[CONNECT] success")
	return pool
}

func checkTable(ctx context.Context, pool *pgxpool.Pool, table string) bool {
	var exists bool
	err := pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)",
		table).Scan(&exists)
	if err != nil {
		log.Fatalf("[CHECK] failed to query information_schema for %s: %v", table, err)
	}
	if !exists {
		log.Printf("[MISSING] %s", table)
		return false
	}

	var count int64
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		log.Fatalf("[CHECK] failed to count rows in %s: %v", table, err)
	}
	log.Printf("[CHECK] %-16s %d rows", table, count)
	return true
}

// checkConfirmed reports how much of the invoice data is actually visible to
// the report generator, which only reads confirmed rows.
func checkConfirmed(ctx context.Context, pool *pgxpool.Pool) {
	var total, confirmed int64
	err := pool.QueryRow(ctx,
		"SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'confirmed') FROM invoices").
		Scan(&total, &confirmed)
	if err != nil {
		log.Fatalf("[CHECK] failed to count confirmed invoices: %v", err)
	}
	log.Printf("[CHECK] invoices confirmed: %d/%d", confirmed, total)
}
