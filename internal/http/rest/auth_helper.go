package rest

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/smartcircular/api/internal/model"
	"github.com/smartcircular/api/internal/store"
	"github.com/smartcircular/api/util"
	"github.com/smartcircular/api/util/values"
	"golang.org/x/crypto/bcrypt"
)

type TokenClaims struct {
	UserID string `json:"sub"`
	Type   string `json:"typ"`
	Exp    int64  `json:"exp"`
}

func (api *API) createToken(id string) (string, time.Time, error) {
	exp_time, err := time.ParseDuration(api.Config.JwtExpires)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := time.Now().Add(exp_time)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": id, // subject (account ID)
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
		"typ": "access",
	})

	tokenString, err := token.SignedString([]byte(api.Config.JwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func (api *API) createRefreshToken(id string) (string, time.Time, error) {
	exp_time, err := time.ParseDuration(api.Config.RefreshExpiry)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := time.Now().Add(exp_time)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": id,
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
		"typ": "refresh",
	})

	tokenString, err := token.SignedString([]byte(api.Config.RefreshSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

func (api *API) CreateNewAccount(ctx context.Context, req model.RegisterRequest) (model.Account, string, string, error) {
	req.Email = util.NormalizeEmail(req.Email)

	if err := util.ValidateStruct(req); err != nil {
		return model.Account{}, values.BadRequestBody, "Invalid registration details", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.Account{}, values.Error, "Error processing password", err
	}

	role := model.RoleCitizen
	if api.Config.IsAdminEmail(req.Email) {
		role = model.RoleAdmin
	}

	now := time.Now().UTC()
	acct := model.Account{
		ID:           util.GenerateUUID(),
		Name:         req.Name,
		Email:        req.Email,
		Pincode:      req.Pincode,
		Address:      req.Address,
		RewardPoints: 0,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := api.Store.CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return model.Account{}, values.Conflict, "Email already registered", err
		}
		return model.Account{}, values.Error, "Error creating account", err
	}

	return acct, values.Created, "Account created successfully", nil
}

func (api *API) LoginAccount(ctx context.Context, req model.LoginRequest) (model.LoginResponse, string, string, error) {
	req.Email = util.NormalizeEmail(req.Email)

	if err := util.ValidEmail(req.Email); err != nil {
		return model.LoginResponse{}, values.BadRequestBody, "Invalid email address provided", err
	}

	acct, err := api.Store.GetAccountByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return model.LoginResponse{}, values.NotAuthorised, "Invalid email or password", err
		}
		return model.LoginResponse{}, values.Error, "Error looking up account", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(req.Password)); err != nil {
		return model.LoginResponse{}, values.NotAuthorised, "Invalid email or password", err
	}

	token, _, err := api.createToken(acct.ID.String())
	if err != nil {
		return model.LoginResponse{}, values.Error, values.SystemErr, err
	}

	refreshToken, refreshExpiry, err := api.createRefreshToken(acct.ID.String())
	if err != nil {
		return model.LoginResponse{}, values.Error, values.SystemErr, err
	}

	if err := api.Store.StoreRefreshToken(ctx, acct.ID, refreshToken, refreshExpiry); err != nil {
		return model.LoginResponse{}, values.Error, "Failed to store session", err
	}

	session := model.LoginResponse{
		Account:      &acct,
		Token:        token,
		RefreshToken: refreshToken,
	}
	return session, values.Success, "Login successful", nil
}

// RefreshSession exchanges a valid refresh token for a new access token. The
// token must carry a valid refresh signature and still be live in the store;
// revoking it at logout cuts off this path immediately.
func (api *API) RefreshSession(ctx context.Context, req model.RefreshRequest) (model.RefreshResponse, string, string, error) {
	if err := util.ValidateStruct(req); err != nil {
		return model.RefreshResponse{}, values.BadRequestBody, "Missing refresh token", err
	}

	claims, err := api.verifyToken(req.RefreshToken, true)
	if err != nil {
		return model.RefreshResponse{}, values.NotAuthorised, "Invalid refresh token", err
	}

	accountID, err := api.Store.ValidateRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return model.RefreshResponse{}, values.NotAuthorised, "Session has expired, please log in again", err
		}
		return model.RefreshResponse{}, values.Error, "Error validating session", err
	}
	if accountID.String() != claims.UserID {
		return model.RefreshResponse{}, values.NotAuthorised, "Invalid refresh token", errors.New("token subject mismatch")
	}

	token, _, err := api.createToken(accountID.String())
	if err != nil {
		return model.RefreshResponse{}, values.Error, values.SystemErr, err
	}

	return model.RefreshResponse{Token: token}, values.Success, "Token refreshed", nil
}

// EndSession revokes the presented refresh token. Revoking a token that is
// already gone is not an error: logout is idempotent.
func (api *API) EndSession(ctx context.Context, req model.LogoutRequest) (string, string, error) {
	if req.RefreshToken == "" {
		return values.Success, "Logged out", nil
	}

	if err := api.Store.RevokeRefreshToken(ctx, req.RefreshToken); err != nil {
		return values.Error, "Failed to end session", err
	}

	return values.Success, "Logged out", nil
}
