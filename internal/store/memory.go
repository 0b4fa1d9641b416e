package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smartcircular/api/internal/model"
	"github.com/smartcircular/api/util"
)

type refreshToken struct {
	accountID uuid.UUID
	expiresAt time.Time
	revoked   bool
}

// Memory is the in-memory Store. A single mutex serialises every mutation, so
// two concurrent decides on one report cannot both succeed and concurrent
// credits to one account cannot lose an update.
type Memory struct {
	mu sync.RWMutex

	accounts     map[uuid.UUID]*model.Account
	accountOrder []uuid.UUID
	emails       map[string]uuid.UUID

	reports     map[uuid.UUID]*model.Report
	reportOrder []uuid.UUID

	tokens map[string]*refreshToken
}

func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[uuid.UUID]*model.Account),
		emails:   make(map[string]uuid.UUID),
		reports:  make(map[uuid.UUID]*model.Report),
		tokens:   make(map[string]*refreshToken),
	}
}

func (m *Memory) CreateAccount(_ context.Context, acct model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := util.NormalizeEmail(acct.Email)
	if _, exists := m.emails[key]; exists {
		return ErrDuplicateEmail
	}

	stored := acct
	m.accounts[acct.ID] = &stored
	m.accountOrder = append(m.accountOrder, acct.ID)
	m.emails[key] = acct.ID
	return nil
}

func (m *Memory) GetAccountByID(_ context.Context, id uuid.UUID) (model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acct, ok := m.accounts[id]
	if !ok {
		return model.Account{}, ErrAccountNotFound
	}
	return *acct, nil
}

func (m *Memory) GetAccountByEmail(_ context.Context, email string) (model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emails[util.NormalizeEmail(email)]
	if !ok {
		return model.Account{}, ErrAccountNotFound
	}
	return *m.accounts[id], nil
}

// ListAccounts returns accounts in creation order.
func (m *Memory) ListAccounts(_ context.Context) ([]model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	accounts := make([]model.Account, 0, len(m.accountOrder))
	for _, id := range m.accountOrder {
		accounts = append(accounts, *m.accounts[id])
	}
	return accounts, nil
}

func (m *Memory) UpdateProfile(_ context.Context, id uuid.UUID, upd model.ProfileUpdate) (model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.accounts[id]
	if !ok {
		return model.Account{}, ErrAccountNotFound
	}

	if upd.Name != nil {
		acct.Name = *upd.Name
	}
	if upd.Pincode != nil {
		acct.Pincode = *upd.Pincode
	}
	if upd.Address != nil {
		acct.Address = *upd.Address
	}
	acct.UpdatedAt = time.Now().UTC()

	return *acct, nil
}

func (m *Memory) CreditPoints(_ context.Context, id uuid.UUID, amount int) (model.Account, error) {
	if amount <= 0 {
		return model.Account{}, ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.accounts[id]
	if !ok {
		return model.Account{}, ErrAccountNotFound
	}

	acct.RewardPoints += amount
	acct.UpdatedAt = time.Now().UTC()
	return *acct, nil
}

func (m *Memory) CreateReport(_ context.Context, report model.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[report.AccountID]; !ok {
		return ErrAccountNotFound
	}

	stored := report
	m.reports[report.ID] = &stored
	m.reportOrder = append(m.reportOrder, report.ID)
	return nil
}

func (m *Memory) GetReportByID(_ context.Context, id uuid.UUID) (model.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	report, ok := m.reports[id]
	if !ok {
		return model.Report{}, ErrReportNotFound
	}
	return *report, nil
}

// ListReportsByOwner returns the owner's reports, newest first.
func (m *Memory) ListReportsByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var reports []model.Report
	for i := len(m.reportOrder) - 1; i >= 0; i-- {
		report, ok := m.reports[m.reportOrder[i]]
		if ok && report.AccountID == ownerID {
			reports = append(reports, *report)
		}
	}
	return reports, nil
}

// ListReports returns every report, newest first.
func (m *Memory) ListReports(_ context.Context) ([]model.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var reports []model.Report
	for i := len(m.reportOrder) - 1; i >= 0; i-- {
		if report, ok := m.reports[m.reportOrder[i]]; ok {
			reports = append(reports, *report)
		}
	}
	return reports, nil
}

func (m *Memory) DeleteReport(_ context.Context, id, ownerID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	report, ok := m.reports[id]
	if !ok || report.AccountID != ownerID {
		return ErrReportNotFound
	}

	delete(m.reports, id)
	return nil
}

func (m *Memory) DecideReport(_ context.Context, id uuid.UUID, decision model.Decision) (model.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	report, ok := m.reports[id]
	if !ok {
		return model.Report{}, ErrReportNotFound
	}
	if report.Status != model.StatusPending {
		return model.Report{}, ErrAlreadyDecided
	}

	if decision == model.DecisionApproved {
		// Credit first: if the owner is gone the report must stay pending.
		acct, ok := m.accounts[report.AccountID]
		if !ok {
			return model.Report{}, ErrAccountNotFound
		}
		acct.RewardPoints += report.Points
		acct.UpdatedAt = time.Now().UTC()
		report.Status = model.StatusApproved
	} else {
		report.Status = model.StatusRejected
	}

	now := time.Now().UTC()
	report.DecidedAt = &now
	return *report, nil
}

func (m *Memory) StoreRefreshToken(_ context.Context, accountID uuid.UUID, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens[token] = &refreshToken{accountID: accountID, expiresAt: expiresAt}
	return nil
}

func (m *Memory) ValidateRefreshToken(_ context.Context, token string) (uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tokens[token]
	if !ok || t.revoked || time.Now().After(t.expiresAt) {
		return uuid.Nil, ErrTokenNotFound
	}
	return t.accountID, nil
}

func (m *Memory) RevokeRefreshToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.tokens[token]; ok {
		t.revoked = true
	}
	return nil
}

func (m *Memory) Close() {}
