// Package store defines the persistence boundary for accounts, reports and
// session tokens. Two implementations exist: Postgres for production and an
// in-memory store used by tests and DSN-less development runs. Which one runs
// is decided once, at startup, from configuration.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/smartcircular/api/internal/model"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrReportNotFound  = errors.New("report not found")
	ErrAlreadyDecided  = errors.New("report already decided")
	ErrInvalidAmount   = errors.New("credit amount must be positive")
	ErrTokenNotFound   = errors.New("refresh token is invalid or expired")
)

type Store interface {
	CreateAccount(ctx context.Context, acct model.Account) error
	GetAccountByID(ctx context.Context, id uuid.UUID) (model.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (model.Account, error)
	ListAccounts(ctx context.Context) ([]model.Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd model.ProfileUpdate) (model.Account, error)
	CreditPoints(ctx context.Context, id uuid.UUID, amount int) (model.Account, error)

	CreateReport(ctx context.Context, report model.Report) error
	GetReportByID(ctx context.Context, id uuid.UUID) (model.Report, error)
	ListReportsByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Report, error)
	ListReports(ctx context.Context) ([]model.Report, error)
	DeleteReport(ctx context.Context, id, ownerID uuid.UUID) error

	// DecideReport moves a pending report to its terminal status. Approval
	// credits the owner's balance with the report's own point value inside
	// the same operation: either both changes land or neither does.
	DecideReport(ctx context.Context, id uuid.UUID, decision model.Decision) (model.Report, error)

	StoreRefreshToken(ctx context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, token string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, token string) error

	Close()
}
