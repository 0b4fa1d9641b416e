package rest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/smartcircular/api/internal/model"
	"github.com/smartcircular/api/internal/store"
	"github.com/smartcircular/api/util"
	"github.com/smartcircular/api/util/values"
)

func (api *API) SubmitReport(ctx context.Context, req model.CreateReportRequest) (model.Report, string, string, error) {
	ownerID, err := util.GetUserIDFromContext(ctx)
	if err != nil {
		return model.Report{}, values.NotAuthorised, "Unable to resolve requester", err
	}

	if err := util.ValidateStruct(req); err != nil {
		return model.Report{}, values.BadRequestBody, "Invalid report details", err
	}

	category := model.ReportCategory(req.Category)
	points, ok := model.PointsForCategory(category)
	if !ok {
		return model.Report{}, values.BadRequestBody, "Unknown report category", errors.New("unknown report category: "+req.Category)
	}

	report := model.Report{
		ID:          util.GenerateUUID(),
		AccountID:   ownerID,
		Category:    category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Points:      points,
		Status:      model.StatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	if err := api.Store.CreateReport(ctx, report); err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return model.Report{}, values.BadRequestBody, "Reporting account does not exist", err
		}
		return model.Report{}, values.Error, "Error submitting report", err
	}

	return report, values.Created, "Report submitted successfully", nil
}

// GetReports lists reports for the acting account. Admins see everything and
// may scope the listing to a single owner with the owner query parameter.
// Non-admins only ever see their own reports.
func (api *API) GetReports(ctx context.Context, ownerParam string) ([]model.Report, string, string, error) {
	actorID, err := util.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, values.NotAuthorised, "Unable to resolve requester", err
	}
	isAdmin := util.GetUserRoleFromContext(ctx) == string(model.RoleAdmin)

	if !isAdmin {
		if ownerParam != "" && ownerParam != actorID.String() {
			return nil, values.NotAllowed, "You can only list your own reports", errors.New("owner filter does not match requester")
		}
		reports, err := api.Store.ListReportsByOwner(ctx, actorID)
		if err != nil {
			return nil, values.Error, "Error fetching reports", err
		}
		return reports, values.Success, "Reports retrieved successfully", nil
	}

	if ownerParam != "" {
		ownerID, err := util.StringToUUID(ownerParam)
		if err != nil {
			return nil, values.BadRequestBody, "Invalid owner id", err
		}
		reports, err := api.Store.ListReportsByOwner(ctx, ownerID)
		if err != nil {
			return nil, values.Error, "Error fetching reports", err
		}
		return reports, values.Success, "Reports retrieved successfully", nil
	}

	reports, err := api.Store.ListReports(ctx)
	if err != nil {
		return nil, values.Error, "Error fetching reports", err
	}
	return reports, values.Success, "Reports retrieved successfully", nil
}

func (api *API) GetReport(ctx context.Context, reportID uuid.UUID) (model.Report, string, string, error) {
	report, err := api.Store.GetReportByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, store.ErrReportNotFound) {
			return model.Report{}, values.NotFound, "Report not found", err
		}
		return model.Report{}, values.Error, "Error fetching report", err
	}

	actorID, err := util.GetUserIDFromContext(ctx)
	if err != nil {
		return model.Report{}, values.NotAuthorised, "Unable to resolve requester", err
	}
	if report.AccountID != actorID && util.GetUserRoleFromContext(ctx) != string(model.RoleAdmin) {
		return model.Report{}, values.NotAllowed, "You cannot view this report", errors.New("report does not belong to requester")
	}

	return report, values.Success, "Report retrieved successfully", nil
}

// RemoveReport deletes one of the requester's own reports. Deleting a report
// never touches the owner's balance, even if the report was already approved.
func (api *API) RemoveReport(ctx context.Context, reportID uuid.UUID) (string, string, error) {
	actorID, err := util.GetUserIDFromContext(ctx)
	if err != nil {
		return values.NotAuthorised, "Unable to resolve requester", err
	}

	if err := api.Store.DeleteReport(ctx, reportID, actorID); err != nil {
		if errors.Is(err, store.ErrReportNotFound) {
			return values.NotFound, "Report not found", err
		}
		return values.Error, "Error deleting report", err
	}

	return values.Success, "Report deleted successfully", nil
}

func (api *API) ModerateReport(ctx context.Context, reportID uuid.UUID, req model.DecisionRequest) (model.Report, string, string, error) {
	if err := util.ValidateStruct(req); err != nil {
		return model.Report{}, values.BadRequestBody, "Decision must be approved or rejected", err
	}

	report, err := api.Store.DecideReport(ctx, reportID, model.Decision(req.Decision))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrReportNotFound):
			return model.Report{}, values.NotFound, "Report not found", err
		case errors.Is(err, store.ErrAlreadyDecided):
			return model.Report{}, values.Conflict, "Report has already been decided", err
		case errors.Is(err, store.ErrAccountNotFound):
			return model.Report{}, values.Error, "Reporting account no longer exists", err
		}
		return model.Report{}, values.Error, "Error deciding report", err
	}

	message := "Report rejected"
	if report.Status == model.StatusApproved {
		message = "Report approved and points credited"
	}
	return report, values.Success, message, nil
}
