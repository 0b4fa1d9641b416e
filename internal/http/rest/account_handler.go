package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/smartcircular/api/internal/model"
	"github.com/smartcircular/api/util"
	"github.com/smartcircular/api/util/tracing"
	"github.com/smartcircular/api/util/values"
)

func (api *API) GetAccount(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	accountID, err := util.StringToUUID(chi.URLParam(r, "accountID"))
	if err != nil {
		return respondWithError(err, "invalid account id", values.BadRequestBody, &tc)
	}

	acct, status, message, err := api.GetAccountDetails(r.Context(), accountID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       acct,
	}
}

func (api *API) ListAccounts(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	accounts, status, message, err := api.GetAllAccounts(r.Context())
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       accounts,
	}
}

func (api *API) UpdateProfile(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	accountID, err := util.StringToUUID(chi.URLParam(r, "accountID"))
	if err != nil {
		return respondWithError(err, "invalid account id", values.BadRequestBody, &tc)
	}

	var req model.UpdateProfileRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	acct, status, message, err := api.UpdateAccountProfile(r.Context(), accountID, req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       acct,
	}
}

func (api *API) CreditPoints(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	accountID, err := util.StringToUUID(chi.URLParam(r, "accountID"))
	if err != nil {
		return respondWithError(err, "invalid account id", values.BadRequestBody, &tc)
	}

	var req model.CreditPointsRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	acct, status, message, err := api.CreditAccountPoints(r.Context(), accountID, req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       acct,
	}
}
