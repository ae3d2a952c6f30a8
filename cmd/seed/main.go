// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"timebill/internal/core/id"
	"timebill/internal/core/security"
	"timebill/internal/infrastructure/storage/postgres"
	"timebill/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedSystemAdmin(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed system admin", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// seedSystemAdmin creates the global administrator account. The account
// has no business scope; it is the only user allowed to manage tenants.
func seedSystemAdmin(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@timebill.io"
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.QueryRow(ctx,
		`SELECT id FROM users WHERE lower(email) = lower($1) AND deleted_at IS NULL`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("system admin already exists", "email", adminEmail, "user_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	now := time.Now().UTC()
	_, err = pool.Exec(ctx, `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name,
			business_id, roles, is_active,
			failed_login_attempts, created_at, updated_at, version
		)
		VALUES ($1, $2, $3, 'System', 'Admin', NULL, $4, true, 0, $5, $5, 1)
	`, userID, adminEmail, string(passwordHash), []string{string(security.RoleSystemAdmin)}, now)
	if err != nil {
		return fmt.Errorf("insert system admin: %w", err)
	}

	log.Infow("system admin created", "email", adminEmail, "user_id", userID)
	return nil
}

// seedDemoData creates one demo tenant with users, catalogs, an active
// rate card and a sample timesheet. Safe to run repeatedly.
func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	now := time.Now().UTC()

	// --- Tenant ---
	businessID := id.New()
	var existing id.ID
	err := pool.QueryRow(ctx,
		`SELECT id FROM cat_businesses WHERE code = 'BZ-0001'`,
	).Scan(&existing)
	switch {
	case err == nil:
		log.Infow("demo business already exists", "business_id", existing)
		return nil
	case !errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("check demo business: %w", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO cat_businesses (id, code, name, deletion_mark, version, status, contact_email, login_enabled)
		VALUES ($1, 'BZ-0001', 'Acme Consulting', false, 1, 'active', 'ops@acme.example', true)
	`, businessID)
	if err != nil {
		return fmt.Errorf("insert demo business: %w", err)
	}

	// --- Users ---
	hash := func(pw string) (string, error) {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		return string(h), err
	}

	adminHash, err := hash("Manager123!")
	if err != nil {
		return err
	}
	businessAdminID := id.New()
	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name,
			business_id, roles, is_active, failed_login_attempts, created_at, updated_at, version)
		VALUES ($1, 'manager@acme.example', $2, 'Maria', 'Keller', $3, $4, true, 0, $5, $5, 1)
	`, businessAdminID, adminHash, businessID, []string{string(security.RoleBusinessAdmin)}, now)
	if err != nil {
		return fmt.Errorf("insert business admin: %w", err)
	}

	consultantHash, err := hash("Consultant123!")
	if err != nil {
		return err
	}
	consultantID := id.New()
	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name,
			business_id, roles, is_active, failed_login_attempts, created_at, updated_at, version)
		VALUES ($1, 'jdoe@acme.example', $2, 'John', 'Doe', $3, $4, true, 0, $5, $5, 1)
	`, consultantID, consultantHash, businessID, []string{string(security.RoleUser)}, now)
	if err != nil {
		return fmt.Errorf("insert consultant: %w", err)
	}

	// --- Internal staff ---
	accountManagerID := id.New()
	recruiterID := id.New()
	_, err = pool.Exec(ctx, `
		INSERT INTO cat_internal_users (id, code, name, deletion_mark, version,
			business_id, type, email, commission_rate, rate_type, recurrence)
		VALUES
			($1, 'IU-0001', 'Alice Grant', false, 1, $3, 'account_manager', 'agrant@acme.example', 2.50, 'fixed', 'recurring'),
			($2, 'IU-0002', 'Bob Reyes', false, 1, $3, 'recruiter', 'breyes@acme.example', 1.75, 'fixed', 'recurring')
	`, accountManagerID, recruiterID, businessID)
	if err != nil {
		return fmt.Errorf("insert internal staff: %w", err)
	}

	// --- Client ---
	clientID := id.New()
	_, err = pool.Exec(ctx, `
		INSERT INTO cat_clients (id, code, name, deletion_mark, version,
			business_id, contact_person, email)
		VALUES ($1, 'CL-0001', 'Globex Corp', false, 1, $2, 'Hank Scorpio', 'billing@globex.example')
	`, clientID, businessID)
	if err != nil {
		return fmt.Errorf("insert demo client: %w", err)
	}

	// --- Rate card (W2 consultant with two commission links) ---
	rateCardID := id.New()
	_, err = pool.Exec(ctx, `
		INSERT INTO cat_rate_cards (id, code, name, deletion_mark, version,
			business_id, user_id, active,
			client_rate, consultant_rate, w2_rate, ptax_percent, c2c_rate,
			account_manager_id, account_manager_commission, account_manager_rate_type, account_manager_recurring, account_manager_count_on,
			bd_manager_id, bd_commission, bd_rate_type, bd_recurring, bd_count_on,
			recruiter_id, recruiter_commission, recruiter_rate_type, recruiter_recurring, recruiter_count_on)
		VALUES ($1, 'RC-0001', 'John Doe / Globex', false, 1,
			$2, $3, true,
			120.00, 80.00, 75.00, 8.5, 0,
			$4, 2.50, 'fixed', true, 0,
			NULL, 0, 'fixed', false, 0,
			$5, 1.75, 'fixed', true, 0)
	`, rateCardID, businessID, consultantID, accountManagerID, recruiterID)
	if err != nil {
		return fmt.Errorf("insert demo rate card: %w", err)
	}

	// --- Holiday ---
	_, err = pool.Exec(ctx, `
		INSERT INTO cat_holidays (id, code, name, deletion_mark, version, business_id, date)
		VALUES ($1, 'HD-0001', 'Independence Day', false, 1, $2, '2026-07-04')
	`, id.New(), businessID)
	if err != nil {
		return fmt.Errorf("insert demo holiday: %w", err)
	}

	// --- Sample timesheet (draft, one week of entries) ---
	timesheetID := id.New()
	start := time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)
	_, err = pool.Exec(ctx, `
		INSERT INTO doc_timesheets (id, deletion_mark, version, created_at, updated_at, created_by, updated_by,
			business_id, number, user_id, rate_card_id, client_id,
			start_date, end_date, status, total_hours,
			gross_margin, expense, internal_expense, net_margin)
		VALUES ($1, false, 1, $2, $2, $3, $3,
			$4, 'TS-2026-00001', $5, $6, $7,
			$8, $9, 'draft', 40,
			0, 0, 0, 0)
	`, timesheetID, now, consultantID.String(), businessID, consultantID, rateCardID, clientID, start, end)
	if err != nil {
		return fmt.Errorf("insert demo timesheet: %w", err)
	}

	for day := 0; day < 5; day++ {
		_, err = pool.Exec(ctx, `
			INSERT INTO doc_timesheet_entries (line_id, timesheet_id, entry_date,
				daily_hours, extra_hours, vacation_hours, client_rate_snapshot)
			VALUES ($1, $2, $3, 8, 0, 0, 120.00)
		`, id.New(), timesheetID, start.AddDate(0, 0, day))
		if err != nil {
			return fmt.Errorf("insert demo entry: %w", err)
		}
	}

	log.Infow("demo data created",
		"business_id", businessID,
		"business_admin", "manager@acme.example",
		"consultant", "jdoe@acme.example",
	)
	return nil
}
