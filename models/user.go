package models

import "time"

// UserType distinguishes the two account roles.
type UserType string

const (
	UserPatient UserType = "patient"
	UserDoctor  UserType = "doctor"
)

// User is an account that can authenticate against the API.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	FullName     string    `bson:"fullName" json:"full_name"`
	UserType     UserType  `bson:"userType" json:"user_type"`
	FCMToken     string    `bson:"fcmToken,omitempty" json:"-"`
	IsActive     bool      `bson:"isActive" json:"is_active"`
	CreatedAt    time.Time `bson:"createdAt" json:"created_at"`
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	FullName string   `json:"full_name" binding:"required"`
	UserType UserType `json:"user_type" binding:"required"`
}

// LoginRequest is the credential payload for token issuance.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// FCMTokenRequest registers the device push token for the caller.
type FCMTokenRequest struct {
	FCMToken string `json:"fcm_token" binding:"required"`
}

// AuthResponse carries the bearer token and the authenticated user.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
