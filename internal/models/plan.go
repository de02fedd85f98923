package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Billing periods
const (
	BillingMonthly = "monthly"
	BillingYearly  = "yearly"
)

// Plan is a subscription plan offered to learners
type Plan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PlanID        string             `bson:"planId" json:"planId"`
	Name          string             `bson:"name" json:"name"`
	Price         float64            `bson:"price" json:"price"`
	Currency      string             `bson:"currency" json:"currency"`
	BillingPeriod string             `bson:"billingPeriod" json:"billingPeriod"`
	Features      []string           `bson:"features" json:"features"`
	Status        string             `bson:"status" json:"status"`
	Featured      bool               `bson:"featured" json:"featured"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// MonthlyPrice normalizes the price to one month
func (p Plan) MonthlyPrice() float64 {
	if p.BillingPeriod == BillingYearly {
		return p.Price / 12
	}
	return p.Price
}

// PlanInput is the writable part of a plan
type PlanInput struct {
	PlanID        string   `json:"planId" binding:"required"`
	Name          string   `json:"name" binding:"required"`
	Price         float64  `json:"price" binding:"gte=0"`
	Currency      string   `json:"currency"`
	BillingPeriod string   `json:"billingPeriod" binding:"required,oneof=monthly yearly"`
	Features      []string `json:"features"`
	Status        string   `json:"status" binding:"omitempty,oneof=active inactive"`
	Featured      bool     `json:"featured"`
}
