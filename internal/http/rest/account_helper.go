package rest

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/smartcircular/api/internal/model"
	"github.com/smartcircular/api/internal/store"
	"github.com/smartcircular/api/util"
	"github.com/smartcircular/api/util/values"
)

// canActOn reports whether the acting account may read or edit the target
// account. Admins can act on anyone, everyone else only on themselves.
func canActOn(ctx context.Context, targetID uuid.UUID) error {
	actorID, err := util.GetUserIDFromContext(ctx)
	if err != nil {
		return err
	}
	if actorID == targetID {
		return nil
	}
	if util.GetUserRoleFromContext(ctx) == string(model.RoleAdmin) {
		return nil
	}
	return errors.New("account does not belong to requester")
}

func (api *API) GetAccountDetails(ctx context.Context, accountID uuid.UUID) (model.Account, string, string, error) {
	if err := canActOn(ctx, accountID); err != nil {
		return model.Account{}, values.NotAllowed, "You cannot view this account", err
	}

	acct, err := api.Store.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return model.Account{}, values.NotFound, "Account not found", err
		}
		return model.Account{}, values.Error, "Error fetching account", err
	}

	return acct, values.Success, "Account retrieved successfully", nil
}

func (api *API) GetAllAccounts(ctx context.Context) ([]model.Account, string, string, error) {
	accounts, err := api.Store.ListAccounts(ctx)
	if err != nil {
		return nil, values.Error, "Error fetching accounts", err
	}
	return accounts, values.Success, "Accounts retrieved successfully", nil
}

func (api *API) UpdateAccountProfile(ctx context.Context, accountID uuid.UUID, req model.UpdateProfileRequest) (model.Account, string, string, error) {
	if err := canActOn(ctx, accountID); err != nil {
		return model.Account{}, values.NotAllowed, "You cannot edit this account", err
	}

	if err := util.ValidateStruct(req); err != nil {
		return model.Account{}, values.BadRequestBody, "Invalid profile details", err
	}

	upd := model.ProfileUpdate{
		Name:    req.Name,
		Pincode: req.Pincode,
		Address: req.Address,
	}

	acct, err := api.Store.UpdateProfile(ctx, accountID, upd)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return model.Account{}, values.NotFound, "Account not found", err
		}
		return model.Account{}, values.Error, "Error updating profile", err
	}

	return acct, values.Success, "Profile updated successfully", nil
}

func (api *API) CreditAccountPoints(ctx context.Context, accountID uuid.UUID, req model.CreditPointsRequest) (model.Account, string, string, error) {
	acct, err := api.Store.CreditPoints(ctx, accountID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidAmount):
			return model.Account{}, values.BadRequestBody, "Credit amount must be positive", err
		case errors.Is(err, store.ErrAccountNotFound):
			return model.Account{}, values.NotFound, "Account not found", err
		}
		return model.Account{}, values.Error, "Error crediting points", err
	}

	return acct, values.Success, "Points credited successfully", nil
}
