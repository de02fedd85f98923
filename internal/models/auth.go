package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin roles
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// Admin is a back-office account. It must be verified by email and then
// approved by an existing admin before it can log in.
type Admin struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name                string             `bson:"name" json:"name"`
	Email               string             `bson:"email" json:"email"`
	PasswordHash        string             `bson:"passwordHash" json:"-"`
	Role                string             `bson:"role" json:"role"`
	IsVerified          bool               `bson:"isVerified" json:"isVerified"`
	IsApproved          bool               `bson:"isApproved" json:"isApproved"`
	VerificationCode    string             `bson:"verificationCode,omitempty" json:"-"`
	VerificationExpires *time.Time         `bson:"verificationExpires,omitempty" json:"-"`
	ResetToken          string             `bson:"resetToken,omitempty" json:"-"`
	ResetExpires        *time.Time         `bson:"resetExpires,omitempty" json:"-"`
	LastLogin           *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AdminSession is the authenticated caller of a request
type AdminSession struct {
	AdminID primitive.ObjectID `json:"adminId"`
	Email   string             `json:"email"`
	Role    string             `json:"role"`
}

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest defines the structure for admin signup requests
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// VerifyRequest confirms an email address
type VerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// ForgotPasswordRequest starts a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes a password reset
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	Token string `json:"token"`
	Admin *Admin `json:"admin"`
}
