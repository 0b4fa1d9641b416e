package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/smartcircular/api/internal/db"
	"github.com/smartcircular/api/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Postgres is the production Store backed by pgx.
type Postgres struct {
	db *db.DB
}

// NewPostgres wraps the connection pool and brings the schema up to date.
func NewPostgres(database *db.DB) (*Postgres, error) {
	s := &Postgres{db: database}

	if err := s.runMigrations(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Postgres) runMigrations(ctx context.Context) error {
	sqlDB := stdlib.OpenDBFromPool(s.db.Pool())
	defer sqlDB.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func (s *Postgres) CreateAccount(ctx context.Context, acct model.Account) error {
	stmt := `
        INSERT INTO accounts (id, name, email, pincode, address, reward_points, role, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err := s.db.Pool().Exec(ctx, stmt,
		acct.ID, acct.Name, acct.Email, acct.Pincode, acct.Address,
		acct.RewardPoints, string(acct.Role), acct.PasswordHash,
		acct.CreatedAt, acct.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

const accountColumns = `id, name, email, pincode, address, reward_points, role, created_at, updated_at`

func scanAccount(row pgx.Row) (model.Account, error) {
	var acct model.Account
	var role string
	err := row.Scan(
		&acct.ID, &acct.Name, &acct.Email, &acct.Pincode, &acct.Address,
		&acct.RewardPoints, &role, &acct.CreatedAt, &acct.UpdatedAt,
	)
	if err != nil {
		return model.Account{}, err
	}
	acct.Role = model.Role(role)
	return acct, nil
}

func (s *Postgres) GetAccountByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	stmt := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	acct, err := scanAccount(s.db.Pool().QueryRow(ctx, stmt, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, ErrAccountNotFound
		}
		return model.Account{}, fmt.Errorf("get account: %w", err)
	}
	return acct, nil
}

func (s *Postgres) GetAccountByEmail(ctx context.Context, email string) (model.Account, error) {
	stmt := `SELECT ` + accountColumns + `, password_hash FROM accounts WHERE LOWER(email) = LOWER($1)`

	var acct model.Account
	var role string
	err := s.db.Pool().QueryRow(ctx, stmt, email).Scan(
		&acct.ID, &acct.Name, &acct.Email, &acct.Pincode, &acct.Address,
		&acct.RewardPoints, &role, &acct.CreatedAt, &acct.UpdatedAt,
		&acct.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, ErrAccountNotFound
		}
		return model.Account{}, fmt.Errorf("get account by email: %w", err)
	}
	acct.Role = model.Role(role)
	return acct, nil
}

func (s *Postgres) ListAccounts(ctx context.Context) ([]model.Account, error) {
	stmt := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at, id`

	rows, err := s.db.Pool().Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, rows.Err()
}

func (s *Postgres) UpdateProfile(ctx context.Context, id uuid.UUID, upd model.ProfileUpdate) (model.Account, error) {
	stmt := `
        UPDATE accounts
        SET name = COALESCE($2, name),
            pincode = COALESCE($3, pincode),
            address = COALESCE($4, address),
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + accountColumns

	acct, err := scanAccount(s.db.Pool().QueryRow(ctx, stmt, id, upd.Name, upd.Pincode, upd.Address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, ErrAccountNotFound
		}
		return model.Account{}, fmt.Errorf("update profile: %w", err)
	}
	return acct, nil
}

func (s *Postgres) CreditPoints(ctx context.Context, id uuid.UUID, amount int) (model.Account, error) {
	if amount <= 0 {
		return model.Account{}, ErrInvalidAmount
	}

	stmt := `
        UPDATE accounts
        SET reward_points = reward_points + $2, updated_at = NOW()
        WHERE id = $1
        RETURNING ` + accountColumns

	acct, err := scanAccount(s.db.Pool().QueryRow(ctx, stmt, id, amount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, ErrAccountNotFound
		}
		return model.Account{}, fmt.Errorf("credit points: %w", err)
	}
	return acct, nil
}

func (s *Postgres) CreateReport(ctx context.Context, report model.Report) error {
	stmt := `
        INSERT INTO reports (id, account_id, category, description, image_url, address, latitude, longitude, points, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `
	_, err := s.db.Pool().Exec(ctx, stmt,
		report.ID, report.AccountID, string(report.Category), report.Description,
		report.ImageURL, report.Address, report.Latitude, report.Longitude,
		report.Points, string(report.Status), report.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrAccountNotFound
		}
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

const reportColumns = `id, account_id, category, description, image_url, address, latitude, longitude, points, status, created_at, decided_at`

func scanReport(row pgx.Row) (model.Report, error) {
	var report model.Report
	var category, status string
	err := row.Scan(
		&report.ID, &report.AccountID, &category, &report.Description,
		&report.ImageURL, &report.Address, &report.Latitude, &report.Longitude,
		&report.Points, &status, &report.CreatedAt, &report.DecidedAt,
	)
	if err != nil {
		return model.Report{}, err
	}
	report.Category = model.ReportCategory(category)
	report.Status = model.ReportStatus(status)
	return report, nil
}

func (s *Postgres) GetReportByID(ctx context.Context, id uuid.UUID) (model.Report, error) {
	stmt := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	report, err := scanReport(s.db.Pool().QueryRow(ctx, stmt, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Report{}, ErrReportNotFound
		}
		return model.Report{}, fmt.Errorf("get report: %w", err)
	}
	return report, nil
}

func (s *Postgres) ListReportsByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Report, error) {
	stmt := `SELECT ` + reportColumns + ` FROM reports WHERE account_id = $1 ORDER BY created_at DESC`
	return s.queryReports(ctx, stmt, ownerID)
}

func (s *Postgres) ListReports(ctx context.Context) ([]model.Report, error) {
	stmt := `SELECT ` + reportColumns + ` FROM reports ORDER BY created_at DESC`
	return s.queryReports(ctx, stmt)
}

func (s *Postgres) queryReports(ctx context.Context, stmt string, args ...any) ([]model.Report, error) {
	rows, err := s.db.Pool().Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func (s *Postgres) DeleteReport(ctx context.Context, id, ownerID uuid.UUID) error {
	stmt := `DELETE FROM reports WHERE id = $1 AND account_id = $2`

	tag, err := s.db.Pool().Exec(ctx, stmt, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}

// DecideReport runs the status transition and, for approvals, the owner
// credit inside one transaction. The guarded UPDATE only matches pending
// reports, so a concurrent second decide loses the race and reads the
// terminal status instead.
func (s *Postgres) DecideReport(ctx context.Context, id uuid.UUID, decision model.Decision) (model.Report, error) {
	status := model.StatusRejected
	if decision == model.DecisionApproved {
		status = model.StatusApproved
	}

	var report model.Report
	err := s.db.RunInTx(ctx, func(tx pgx.Tx) error {
		stmt := `
            UPDATE reports
            SET status = $2, decided_at = NOW()
            WHERE id = $1 AND status = $3
            RETURNING ` + reportColumns

		var err error
		report, err = scanReport(tx.QueryRow(ctx, stmt, id, string(status), string(model.StatusPending)))
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("decide report: %w", err)
			}

			var current string
			err = tx.QueryRow(ctx, `SELECT status FROM reports WHERE id = $1`, id).Scan(&current)
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrReportNotFound
			}
			if err != nil {
				return fmt.Errorf("decide report: %w", err)
			}
			return ErrAlreadyDecided
		}

		if status == model.StatusApproved {
			tag, err := tx.Exec(ctx,
				`UPDATE accounts SET reward_points = reward_points + $2, updated_at = NOW() WHERE id = $1`,
				report.AccountID, report.Points,
			)
			if err != nil {
				return fmt.Errorf("credit owner: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return ErrAccountNotFound
			}
		}

		return nil
	})
	if err != nil {
		return model.Report{}, err
	}
	return report, nil
}

func (s *Postgres) StoreRefreshToken(ctx context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error {
	stmt := `
        INSERT INTO auth_tokens (token_value, account_id, token_type, expires_at, created_at)
        VALUES ($1, $2, 'refresh', $3, NOW())
    `
	_, err := s.db.Pool().Exec(ctx, stmt, token, accountID, expiresAt)
	if err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

func (s *Postgres) ValidateRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	stmt := `
        SELECT account_id FROM auth_tokens
        WHERE token_value = $1 AND token_type = 'refresh' AND is_revoked = FALSE AND expires_at > NOW()
    `
	var accountID uuid.UUID
	err := s.db.Pool().QueryRow(ctx, stmt, token).Scan(&accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrTokenNotFound
		}
		return uuid.Nil, fmt.Errorf("validate refresh token: %w", err)
	}
	return accountID, nil
}

func (s *Postgres) RevokeRefreshToken(ctx context.Context, token string) error {
	stmt := `UPDATE auth_tokens SET is_revoked = TRUE WHERE token_value = $1`

	_, err := s.db.Pool().Exec(ctx, stmt, token)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (s *Postgres) Close() {
	s.db.Close()
}
