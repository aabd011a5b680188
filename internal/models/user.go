package models

import (
	"time"
)

// User roles
const (
	RoleRider  = "rider"
	RoleDriver = "driver"
	RoleAdmin  = "admin"
)

// Student-ID verification states
const (
	VerificationUnverified = "unverified"
	VerificationPending    = "pending"
	VerificationVerified   = "verified"
	VerificationRejected   = "rejected"
)

type User struct {
	ID                 string    `db:"id" json:"id"`
	Email              string    `db:"email" json:"email"`
	PasswordHash       string    `db:"password_hash" json:"-"`
	Name               string    `db:"name" json:"name"`
	Role               string    `db:"role" json:"role"`
	IsAdmin            bool      `db:"is_admin" json:"is_admin"`
	VerificationStatus string    `db:"verification_status" json:"verification_status"`
	VehicleModel       *string   `db:"vehicle_model" json:"vehicle_model,omitempty"`
	VehicleNumber      *string   `db:"vehicle_number" json:"vehicle_number,omitempty"`
	VehicleColor       *string   `db:"vehicle_color" json:"vehicle_color,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Role     string `json:"role" validate:"required,oneof=rider driver"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Role          *string `json:"role,omitempty" validate:"omitempty,oneof=rider driver"`
	VehicleModel  *string `json:"vehicle_model,omitempty" validate:"omitempty,max=100"`
	VehicleNumber *string `json:"vehicle_number,omitempty" validate:"omitempty,max=20"`
	VehicleColor  *string `json:"vehicle_color,omitempty" validate:"omitempty,max=30"`
}

type UpdateVerificationRequest struct {
	Status string `json:"status" validate:"required,oneof=pending verified rejected"`
}

type UserResponse struct {
	ID                 string  `json:"id"`
	Email              string  `json:"email"`
	Name               string  `json:"name"`
	Role               string  `json:"role"`
	IsAdmin            bool    `json:"is_admin"`
	VerificationStatus string  `json:"verification_status"`
	VehicleModel       *string `json:"vehicle_model,omitempty"`
	VehicleNumber      *string `json:"vehicle_number,omitempty"`
	VehicleColor       *string `json:"vehicle_color,omitempty"`
	CreatedAt          string  `json:"created_at"`
}

type AuthResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	User    *UserResponse `json:"user"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		Role:               u.Role,
		IsAdmin:            u.IsAdmin,
		VerificationStatus: u.VerificationStatus,
		VehicleModel:       u.VehicleModel,
		VehicleNumber:      u.VehicleNumber,
		VehicleColor:       u.VehicleColor,
		CreatedAt:          u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// IsVerified reports whether the user has passed student-ID review.
func (u *User) IsVerified() bool {
	return u.VerificationStatus == VerificationVerified
}
