package model

import (
	"time"

	"github.com/google/uuid"
)

type ReportCategory string

const (
	CategoryWaste       ReportCategory = "waste"
	CategoryFlood       ReportCategory = "flood"
	CategoryElectricity ReportCategory = "electricity"
)

// categoryPoints is the fixed reward value per category, locked into the
// report at submission time.
var categoryPoints = map[ReportCategory]int{
	CategoryWaste:       10,
	CategoryFlood:       15,
	CategoryElectricity: 12,
}

// PointsForCategory returns the reward value for a category and whether the
// category is one of the known report types.
func PointsForCategory(c ReportCategory) (int, bool) {
	points, ok := categoryPoints[c]
	return points, ok
}

type ReportStatus string

const (
	StatusPending  ReportStatus = "pending"
	StatusApproved ReportStatus = "approved"
	StatusRejected ReportStatus = "rejected"
)

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

type Report struct {
	ID          uuid.UUID      `json:"id"`
	AccountID   uuid.UUID      `json:"account_id"`
	Category    ReportCategory `json:"category"`
	Description string         `json:"description"`
	ImageURL    *string        `json:"image_url,omitempty"`
	Address     *string        `json:"address,omitempty"`
	Latitude    *float64       `json:"latitude,omitempty"`
	Longitude   *float64       `json:"longitude,omitempty"`
	Points      int            `json:"points"`
	Status      ReportStatus   `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	DecidedAt   *time.Time     `json:"decided_at,omitempty"`
}

type CreateReportRequest struct {
	Category    string   `json:"category" validate:"required"`
	Description string   `json:"description" validate:"max=2000"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,url"`
	Address     *string  `json:"address" validate:"omitempty,max=500"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
}

type DecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
}
