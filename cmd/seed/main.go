// Package main provides a CLI tool for creating the schema and seeding demo data.
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"storebooks/internal/config"
	"storebooks/internal/core/types"
	"storebooks/internal/domain/auth"
	"storebooks/internal/infrastructure/storage/postgres"
	"storebooks/pkg/logger"
)

//go:embed schema.sql
var schemaSQL string

func main() {
	var (
		schemaOnly = flag.Bool("schema-only", false, "create tables and exit")
		reset      = flag.Bool("reset", false, "delete existing report data before seeding")
		days       = flag.Int("days", 30, "number of days of demo data, ending today")
		seed       = flag.Uint64("seed", 1, "random seed for demo data")
		tokens     = flag.Bool("tokens", true, "print bearer tokens for the demo users")
	)
	flag.Parse()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load configuration", "error", err)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		log.Fatalw("failed to create schema", "error", err)
	}
	log.Info("schema ready")

	if *schemaOnly {
		return
	}

	today := types.DateOf(time.Now(), cfg.Report.Location)
	ds := generate(*seed, *days, today, cfg.Report.Location)

	txm := postgres.NewTxManager(pool)
	if err := seedDemoData(ctx, txm, ds, *reset, log); err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}

	if *tokens {
		jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
		jwtConfig.Issuer = cfg.JWT.Issuer
		jwtConfig.AccessTokenTTL = 24 * time.Hour
		printTokens(auth.NewJWTService(jwtConfig), ds.Users)
	}

	log.Info("seeding completed successfully")
}

func seedDemoData(ctx context.Context, txm *postgres.TxManager, ds dataset, reset bool, log *logger.Logger) error {
	return txm.RunInTransaction(ctx, func(ctx context.Context) error {
		tx := txm.GetTx(ctx)

		if reset {
			_, err := tx.Exec(ctx, `TRUNCATE customer_payments, sales, customers, stock_ins, expenses, user_branches, branches RESTART IDENTITY CASCADE`)
			if err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			log.Info("existing report data removed")
		}

		var existing int
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM branches`).Scan(&existing); err != nil {
			return fmt.Errorf("count branches: %w", err)
		}
		if existing > 0 {
			log.Infow("branches already present, skipping demo data (use -reset to reseed)", "branches", existing)
			return nil
		}

		inserter := postgres.NewBatchInserter(txm)

		branchRows := make([][]any, 0, len(ds.Branches))
		for _, b := range ds.Branches {
			branchRows = append(branchRows, []any{b.ID, b.Name})
		}
		if _, err := inserter.CopyFromSlice(ctx, "branches", []string{"id", "name"}, branchRows); err != nil {
			return fmt.Errorf("copy branches: %w", err)
		}

		var memberRows [][]any
		for _, u := range ds.Users {
			for _, b := range u.Branches {
				memberRows = append(memberRows, []any{u.ID, b})
			}
		}
		if _, err := inserter.CopyFromSlice(ctx, "user_branches", []string{"user_id", "branch_id"}, memberRows); err != nil {
			return fmt.Errorf("copy user branches: %w", err)
		}

		customerRows := make([][]any, 0, len(ds.Customers))
		for _, c := range ds.Customers {
			customerRows = append(customerRows, []any{c.ID, c.Name})
		}
		if _, err := inserter.CopyFromSlice(ctx, "customers", []string{"id", "customer"}, customerRows); err != nil {
			return fmt.Errorf("copy customers: %w", err)
		}
		// COPY bypasses the sequence; move it past the explicit ids.
		if _, err := tx.Exec(ctx, `SELECT setval(pg_get_serial_sequence('customers', 'id'), (SELECT max(id) FROM customers))`); err != nil {
			return fmt.Errorf("advance customer sequence: %w", err)
		}

		// Amounts are sent as text so NUMERIC receives them exactly.
		batch := &pgx.Batch{}
		for _, p := range ds.Purchases {
			batch.Queue(`INSERT INTO stock_ins (branch_id, total_cost, purchased_at) VALUES ($1, $2::numeric, $3)`,
				p.BranchID, p.Amount.String(), p.At)
		}
		for _, e := range ds.Expenses {
			batch.Queue(`INSERT INTO expenses (branch_id, amount, description, spent_at) VALUES ($1, $2::numeric, $3, $4)`,
				e.BranchID, e.Amount.String(), e.Note, e.At)
		}
		for _, s := range ds.Sales {
			payments := make([]string, len(s.Payments))
			for i, p := range s.Payments {
				payments[i] = p.String()
			}
			batch.Queue(`
				WITH sale AS (
					INSERT INTO sales (branch_id, customer_id, exact_price, overall_price, created_at)
					VALUES ($1, $6, $2::numeric, $3::numeric, $4)
					RETURNING id
				)
				INSERT INTO customer_payments (sales_id, payment, paid_at)
				SELECT sale.id, p::numeric, $4 FROM sale, unnest($5::text[]) AS p`,
				s.BranchID, s.Gross.String(), s.Net.String(), s.At, payments, s.CustomerID)
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert demo records: %w", err)
		}

		log.Infow("demo data inserted",
			"branches", len(ds.Branches),
			"customers", len(ds.Customers),
			"purchases", len(ds.Purchases),
			"sales", len(ds.Sales),
			"expenses", len(ds.Expenses),
		)
		return nil
	})
}

func printTokens(jwt *auth.JWTService, users []demoUser) {
	for _, u := range users {
		branches := make([]string, len(u.Branches))
		for i, b := range u.Branches {
			branches[i] = b.String()
		}

		token, expires, err := jwt.GenerateAccessToken(auth.Identity{
			UserID:    u.ID,
			Email:     u.Email,
			BranchIDs: branches,
			IsAdmin:   u.IsAdmin,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "token for %s: %v\n", u.ID, err)
			continue
		}
		fmt.Printf("%s (expires %s)\n  Authorization: Bearer %s\n", u.ID, expires.Format(time.RFC3339), token)
	}
}
