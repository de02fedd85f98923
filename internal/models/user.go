package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User statuses
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusInactive  = "inactive"
)

// Subscription plans known without consulting the plans collection
const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

// Subscription is the plan a learner is currently on
type Subscription struct {
	Plan      string     `bson:"plan" json:"plan"`
	Status    string     `bson:"status" json:"status"`
	StartDate *time.Time `bson:"startDate,omitempty" json:"startDate,omitempty"`
}

// BillingRecord is one entry of a user's billing history
type BillingRecord struct {
	TransactionID string    `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	Amount        float64   `bson:"amount" json:"amount"`
	Status        string    `bson:"status" json:"status"` // success, failed, pending, refunded
	Date          time.Time `bson:"date" json:"date"`
	Plan          string    `bson:"plan" json:"plan"`
}

// CourseProgress tracks a learner through one course
type CourseProgress struct {
	CourseID  string    `bson:"courseId" json:"courseId"`
	Progress  float64   `bson:"progress" json:"progress"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// User represents a learner on the platform
type User struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name              string               `bson:"name" json:"name"`
	Email             string               `bson:"email" json:"email"`
	Phone             string               `bson:"phone,omitempty" json:"phone,omitempty"`
	Status            string               `bson:"status" json:"status"`
	Subscription      Subscription         `bson:"subscription" json:"subscription"`
	BillingHistory    []BillingRecord      `bson:"billingHistory" json:"billingHistory"`
	GeneratedCardSets []primitive.ObjectID `bson:"generatedCardSets" json:"generatedCardSets"`
	Courses           []CourseProgress     `bson:"courses" json:"courses"`
	CreatedAt         time.Time            `bson:"createdAt" json:"createdAt"`
	LastLogin         *time.Time           `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	LastActive        *time.Time           `bson:"lastActive,omitempty" json:"lastActive,omitempty"`
	UpdatedAt         time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// UserActivity counts what a user has produced across collections
type UserActivity struct {
	CardSets     int64 `json:"cardSets"`
	Tests        int64 `json:"tests"`
	Interactions int64 `json:"interactions"`
}

// UserListItem is a user as returned by the list endpoint
type UserListItem struct {
	*User
	Activity UserActivity `json:"activity"`
}

// UserFilter narrows a user listing
type UserFilter struct {
	Search       string
	Status       string
	Subscription string
}

// UserInput is the writable part of a user
type UserInput struct {
	Name         string        `json:"name" binding:"required"`
	Email        string        `json:"email" binding:"required,email"`
	Phone        string        `json:"phone"`
	Status       string        `json:"status" binding:"omitempty,oneof=active suspended inactive"`
	Subscription *Subscription `json:"subscription"`
}

// BulkUserUpdate applies the same change to several users
type BulkUserUpdate struct {
	IDs     []string          `json:"ids" binding:"required,min=1"`
	Updates BulkUserUpdateSet `json:"updates" binding:"required"`
}

// BulkUserUpdateSet lists the fields a bulk update may touch
type BulkUserUpdateSet struct {
	Status             string `json:"status" binding:"omitempty,oneof=active suspended inactive"`
	SubscriptionPlan   string `json:"subscriptionPlan"`
	SubscriptionStatus string `json:"subscriptionStatus"`
}

// IsEmpty reports whether no field was supplied
func (s BulkUserUpdateSet) IsEmpty() bool {
	return s.Status == "" && s.SubscriptionPlan == "" && s.SubscriptionStatus == ""
}

// BulkIDs is the body of bulk delete requests
type BulkIDs struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}
