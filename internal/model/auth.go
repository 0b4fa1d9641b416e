package model

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Pincode  string `json:"pincode" validate:"omitempty,max=10"`
	Address  string `json:"address" validate:"omitempty,max=500"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshResponse struct {
	Token string `json:"token"`
}

type LoginResponse struct {
	Account      *Account `json:"account"`
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
}
