package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCitizen Role = "citizen"
	RoleAdmin   Role = "admin"
)

type Account struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Pincode      string    `json:"pincode"`
	Address      string    `json:"address"`
	RewardPoints int       `json:"reward_points"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// ProfileUpdate carries a partial profile edit. Nil fields are left untouched.
// Email is deliberately absent: it is immutable after registration.
type ProfileUpdate struct {
	Name    *string `json:"name,omitempty"`
	Pincode *string `json:"pincode,omitempty"`
	Address *string `json:"address,omitempty"`
}

type UpdateProfileRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=100"`
	Pincode *string `json:"pincode" validate:"omitempty,max=10"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

type CreditPointsRequest struct {
	Amount int `json:"amount" validate:"required"`
}
