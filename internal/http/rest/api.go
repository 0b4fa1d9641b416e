package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/smartcircular/api/config"
	"github.com/smartcircular/api/internal/store"
	"github.com/smartcircular/api/util"
	"github.com/smartcircular/api/util/storage"
	"github.com/smartcircular/api/util/tracing"
	"github.com/smartcircular/api/util/values"
)

const (
	defaultIdleTimeout    = time.Minute
	defaultReadTimeout    = 5 * time.Second
	defaultWriteTimeout   = 10 * time.Second
	defaultShutdownPeriod = 30 * time.Second
)

type Handler func(w http.ResponseWriter, r *http.Request) *ServerResponse

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h(w, r)
	respByte, err := json.Marshal(resp)
	if err != nil {
		writeErrorResponse(w, err, values.Error, "unable to marshal server response")
		return
	}
	writeJSONResponse(w, respByte, resp.StatusCode)
}

type ServerResponse struct {
	Message    string      `json:"message"`
	Status     string      `json:"status"`
	StatusCode int         `json:"-"`
	Data       interface{} `json:"data,omitempty"`
}

func respondWithError(err error, message string, status string, tc *tracing.Context) *ServerResponse {
	if err != nil {
		zap.L().Error(message,
			zap.Error(err),
			zap.String("request_id", tc.RequestID),
			zap.String("request_source", tc.RequestSource),
		)
	}
	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}

func writeErrorResponse(w http.ResponseWriter, err error, status string, message string) {
	if err != nil {
		zap.L().Error(message, zap.Error(err))
	}
	resp := ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
	respByte, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	writeJSONResponse(w, respByte, resp.StatusCode)
}

func writeJSONResponse(w http.ResponseWriter, body []byte, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

type API struct {
	Server  *http.Server
	Config  *config.Config
	Logger  *zap.Logger
	Store   store.Store
	Uploads *storage.Cloudinary
}

func (api *API) Serve() error {
	api.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", api.Config.Port),
		IdleTimeout:  defaultIdleTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		Handler:      api.setUpServerHandler(),
	}
	return api.Server.ListenAndServe()
}

func (api *API) setUpServerHandler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(RequestTracing)

	mux.Get("/",
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("Smart Circular API"))
		},
	)

	mux.Route("/accounts", func(r chi.Router) {
		r.Method(http.MethodPost, "/", Handler(api.Register))

		r.Group(func(r chi.Router) {
			r.Use(api.RequireLogin)
			r.Method(http.MethodGet, "/{accountID}", Handler(api.GetAccount))
			r.Method(http.MethodPatch, "/{accountID}", Handler(api.UpdateProfile))

			r.Group(func(r chi.Router) {
				r.Use(api.RequireAdmin)
				r.Method(http.MethodGet, "/", Handler(api.ListAccounts))
				r.Method(http.MethodPost, "/{accountID}/points", Handler(api.CreditPoints))
			})
		})
	})

	mux.Route("/session", func(r chi.Router) {
		r.Method(http.MethodPost, "/", Handler(api.Login))
		r.Method(http.MethodPost, "/refresh", Handler(api.RefreshToken))
		r.Method(http.MethodDelete, "/", Handler(api.Logout))
	})

	mux.Route("/reports", func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodPost, "/", Handler(api.CreateReport))
		r.Method(http.MethodGet, "/", Handler(api.ListReports))
		r.Method(http.MethodGet, "/{reportID}", Handler(api.GetReportByID))
		r.Method(http.MethodDelete, "/{reportID}", Handler(api.DeleteReport))

		r.Group(func(r chi.Router) {
			r.Use(api.RequireAdmin)
			r.Method(http.MethodPost, "/{reportID}/decision", Handler(api.DecideReport))
		})
	})

	mux.Route("/uploads", func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodPost, "/", Handler(api.UploadImage))
	})

	return mux
}

func (api *API) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownPeriod)
	defer cancel()

	return api.Server.Shutdown(ctx)
}
