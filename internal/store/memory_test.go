package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartcircular/api/internal/model"
)

func newTestAccount(email string) model.Account {
	now := time.Now().UTC()
	return model.Account{
		ID:           uuid.New(),
		Name:         "Test Account",
		Email:        email,
		Role:         model.RoleCitizen,
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newTestReport(ownerID uuid.UUID, category model.ReportCategory) model.Report {
	points, _ := model.PointsForCategory(category)
	return model.Report{
		ID:        uuid.New(),
		AccountID: ownerID,
		Category:  category,
		Points:    points,
		Status:    model.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryDuplicateEmailCaseInsensitive(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.CreateAccount(ctx, newTestAccount("user@example.com")); err != nil {
		t.Fatalf("first create: %v", err)
	}

	err := m.CreateAccount(ctx, newTestAccount("User@Example.COM"))
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestMemoryGetAccountByEmailIgnoresCase(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	acct := newTestAccount("citizen@example.com")
	if err := m.CreateAccount(ctx, acct); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := m.GetAccountByEmail(ctx, "CITIZEN@example.COM")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.ID != acct.ID {
		t.Fatalf("expected account %s, got %s", acct.ID, got.ID)
	}
}

func TestMemoryCreditPoints(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	acct := newTestAccount("points@example.com")
	if err := m.CreateAccount(ctx, acct); err != nil {
		t.Fatalf("create: %v", err)
	}

	tests := []struct {
		name    string
		amount  int
		wantErr error
		want    int
	}{
		{name: "positive credit", amount: 25, want: 25},
		{name: "second credit accumulates", amount: 10, want: 35},
		{name: "zero amount rejected", amount: 0, wantErr: ErrInvalidAmount},
		{name: "negative amount rejected", amount: -5, wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.CreditPoints(ctx, acct.ID, tt.amount)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("credit: %v", err)
			}
			if got.RewardPoints != tt.want {
				t.Fatalf("expected balance %d, got %d", tt.want, got.RewardPoints)
			}
		})
	}

	if _, err := m.CreditPoints(ctx, uuid.New(), 10); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestMemoryApproveCreditsCategoryValue(t *testing.T) {
	tests := []struct {
		category model.ReportCategory
		want     int
	}{
		{model.CategoryWaste, 10},
		{model.CategoryFlood, 15},
		{model.CategoryElectricity, 12},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			m := NewMemory()
			ctx := context.Background()

			acct := newTestAccount(string(tt.category) + "@example.com")
			if err := m.CreateAccount(ctx, acct); err != nil {
				t.Fatalf("create account: %v", err)
			}

			report := newTestReport(acct.ID, tt.category)
			if err := m.CreateReport(ctx, report); err != nil {
				t.Fatalf("create report: %v", err)
			}

			decided, err := m.DecideReport(ctx, report.ID, model.DecisionApproved)
			if err != nil {
				t.Fatalf("decide: %v", err)
			}
			if decided.Status != model.StatusApproved {
				t.Fatalf("expected approved, got %s", decided.Status)
			}
			if decided.DecidedAt == nil {
				t.Fatal("expected DecidedAt to be set")
			}

			owner, err := m.GetAccountByID(ctx, acct.ID)
			if err != nil {
				t.Fatalf("get owner: %v", err)
			}
			if owner.RewardPoints != tt.want {
				t.Fatalf("expected balance %d, got %d", tt.want, owner.RewardPoints)
			}
		})
	}
}

func TestMemoryRejectDoesNotCredit(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	acct := newTestAccount("reject@example.com")
	if err := m.CreateAccount(ctx, acct); err != nil {
		t.Fatalf("create account: %v", err)
	}

	report := newTestReport(acct.ID, model.CategoryFlood)
	if err := m.CreateReport(ctx, report); err != nil {
		t.Fatalf("create report: %v", err)
	}

	decided, err := m.DecideReport(ctx, report.ID, model.DecisionRejected)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decided.Status != model.StatusRejected {
		t.Fatalf("expected rejected, got %s", decided.Status)
	}

	owner, _ := m.GetAccountByID(ctx, acct.ID)
	if owner.RewardPoints != 0 {
		t.Fatalf("rejection must not credit points, balance is %d", owner.RewardPoints)
	}
}

func TestMemoryDecideIsTerminal(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	acct := newTestAccount("terminal@example.com")
	if err := m.CreateAccount(ctx, acct); err != nil {
		t.Fatalf("create account: %v", err)
	}

	report := newTestReport(acct.ID, model.CategoryWaste)
	if err := m.CreateReport(ctx, report); err != nil {
		t.Fatalf("create report: %v", err)
	}

	if _, err := m.DecideReport(ctx, report.ID, model.DecisionApproved); err != nil {
		t.Fatalf("first decide: %v", err)
	}

	for _, d := range []model.Decision{model.DecisionApproved, model.DecisionRejected} {
		if _, err := m.DecideReport(ctx, report.ID, d); !errors.Is(err, ErrAlreadyDecided) {
			t.Fatalf("expected ErrAlreadyDecided for %s, got %v", d, err)
		}
	}

	// The single approval credited exactly once.
	owner, _ := m.GetAccountByID(ctx, acct.ID)
	if owner.RewardPoints != 10 {
		t.Fatalf("expected balance 10, got %d", owner.RewardPoints)
	}
}

func TestMemoryDecideMissingReport(t *testing.T) {
	m := NewMemory()

	_, err := m.DecideReport(context.Background(), uuid.New(), model.DecisionApproved)
	if !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestMemoryConcurrentDecideCreditsOnce(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	acct := newTestAccount("race@example.com")
	if err := m.CreateAccount(ctx, acct); err != nil {
		t.Fatalf("create account: %v", err)
	}

	report := newTestReport(acct.ID, model.CategoryElectricity)
	if err := m.CreateReport(ctx, report); err != nil {
		t.Fatalf("create report: %v", err)
	}

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.DecideReport(ctx, report.ID, model.DecisionApproved)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded int
	for err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, ErrAlreadyDecided) {
			t.Fatalf("unexpected decide error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one successful decide, got %d", succeeded)
	}

	owner, _ := m.GetAccountByID(ctx, acct.ID)
	if owner.RewardPoints != 12 {
		t.Fatalf("expected single credit of 12, got %d", owner.RewardPoints)
	}
}

func TestMemoryDeleteReportOwnerScoped(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	owner := newTestAccount("owner@example.com")
	other := newTestAccount("other@example.com")
	for _, a := range []model.Account{owner, other} {
		if err := m.CreateAccount(ctx, a); err != nil {
			t.Fatalf("create account: %v", err)
		}
	}

	report := newTestReport(owner.ID, model.CategoryWaste)
	if err := m.CreateReport(ctx, report); err != nil {
		t.Fatalf("create report: %v", err)
	}

	if err := m.DeleteReport(ctx, report.ID, other.ID); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound for foreign delete, got %v", err)
	}

	if err := m.DeleteReport(ctx, report.ID, owner.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := m.GetReportByID(ctx, report.ID); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("report should be gone, got %v", err)
	}
}

func TestMemoryDeleteApprovedReportKeepsBalance(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	acct := newTestAccount("keep@example.com")
	if err := m.CreateAccount(ctx, acct); err != nil {
		t.Fatalf("create account: %v", err)
	}

	report := newTestReport(acct.ID, model.CategoryFlood)
	if err := m.CreateReport(ctx, report); err != nil {
		t.Fatalf("create report: %v", err)
	}
	if _, err := m.DecideReport(ctx, report.ID, model.DecisionApproved); err != nil {
		t.Fatalf("decide: %v", err)
	}
	if err := m.DeleteReport(ctx, report.ID, acct.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	owner, _ := m.GetAccountByID(ctx, acct.ID)
	if owner.RewardPoints != 15 {
		t.Fatalf("deleting a report must not touch the balance, got %d", owner.RewardPoints)
	}
}

func TestMemoryListReportsNewestFirst(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	acct := newTestAccount("list@example.com")
	if err := m.CreateAccount(ctx, acct); err != nil {
		t.Fatalf("create account: %v", err)
	}

	first := newTestReport(acct.ID, model.CategoryWaste)
	second := newTestReport(acct.ID, model.CategoryFlood)
	for _, r := range []model.Report{first, second} {
		if err := m.CreateReport(ctx, r); err != nil {
			t.Fatalf("create report: %v", err)
		}
	}

	reports, err := m.ListReportsByOwner(ctx, acct.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].ID != second.ID || reports[1].ID != first.ID {
		t.Fatal("expected newest report first")
	}
}

func TestMemoryCreateReportUnknownOwner(t *testing.T) {
	m := NewMemory()

	report := newTestReport(uuid.New(), model.CategoryWaste)
	if err := m.CreateReport(context.Background(), report); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestMemoryUpdateProfilePartial(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	acct := newTestAccount("profile@example.com")
	acct.Name = "Before"
	acct.Pincode = "10001"
	if err := m.CreateAccount(ctx, acct); err != nil {
		t.Fatalf("create account: %v", err)
	}

	name := "After"
	got, err := m.UpdateProfile(ctx, acct.ID, model.ProfileUpdate{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "After" {
		t.Fatalf("expected updated name, got %q", got.Name)
	}
	if got.Pincode != "10001" {
		t.Fatalf("untouched field changed, pincode %q", got.Pincode)
	}
	if got.Email != acct.Email {
		t.Fatalf("email must be immutable, got %q", got.Email)
	}
}

func TestMemoryRefreshTokenLifecycle(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	accountID := uuid.New()
	if err := m.StoreRefreshToken(ctx, accountID, "tok-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, err := m.ValidateRefreshToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got != accountID {
		t.Fatalf("expected %s, got %s", accountID, got)
	}

	if err := m.RevokeRefreshToken(ctx, "tok-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := m.ValidateRefreshToken(ctx, "tok-1"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound after revoke, got %v", err)
	}

	// Revoking again or revoking an unknown token is a no-op.
	if err := m.RevokeRefreshToken(ctx, "tok-1"); err != nil {
		t.Fatalf("second revoke: %v", err)
	}
	if err := m.RevokeRefreshToken(ctx, "never-issued"); err != nil {
		t.Fatalf("unknown revoke: %v", err)
	}
}

func TestMemoryExpiredRefreshToken(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.StoreRefreshToken(ctx, uuid.New(), "stale", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, err := m.ValidateRefreshToken(ctx, "stale"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound for expired token, got %v", err)
	}
}
