package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Billing record statuses
const (
	PaymentSuccess  = "success"
	PaymentFailed   = "failed"
	PaymentPending  = "pending"
	PaymentRefunded = "refunded"
)

// MonthRevenue is revenue booked in one calendar month
type MonthRevenue struct {
	Month   string  `bson:"_id" json:"month"`
	Revenue float64 `bson:"revenue" json:"revenue"`
	Count   int64   `bson:"count" json:"count"`
}

// PlanRevenue is revenue attributed to one plan
type PlanRevenue struct {
	Plan    string  `bson:"_id" json:"plan"`
	Revenue float64 `bson:"revenue" json:"revenue"`
	Count   int64   `bson:"count" json:"count"`
}

// PlanSubscribers pairs a plan with its active subscriber count
type PlanSubscribers struct {
	PlanID      string  `json:"planId"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Subscribers int64   `json:"subscribers"`
}

// BillingOverview is the headline block of /billing/reports
type BillingOverview struct {
	TotalRevenue           float64 `json:"totalRevenue"`
	MRR                    float64 `json:"mrr"`
	TotalTransactions      int64   `json:"totalTransactions"`
	SuccessfulTransactions int64   `json:"successfulTransactions"`
	FailedTransactions     int64   `json:"failedTransactions"`
	ActiveSubscriptions    int64   `json:"activeSubscriptions"`
}

// BillingCharts holds billing time series
type BillingCharts struct {
	RevenueByMonth []MonthRevenue `json:"revenueByMonth"`
}

// BillingDistributions holds billing splits
type BillingDistributions struct {
	RevenueByPlan     []PlanRevenue `json:"revenueByPlan"`
	TransactionStatus []LabelCount  `json:"transactionStatus"`
}

// BillingReport is the body of GET /api/billing/reports
type BillingReport struct {
	Months        int                  `json:"months"`
	Overview      BillingOverview      `json:"overview"`
	Charts        BillingCharts        `json:"charts"`
	Distributions BillingDistributions `json:"distributions"`
	Plans         []PlanSubscribers    `json:"plans"`
}

// Transaction is a billing history entry flattened with its user
type Transaction struct {
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	UserName      string             `bson:"userName" json:"userName"`
	UserEmail     string             `bson:"userEmail" json:"userEmail"`
	TransactionID string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	Amount        float64            `bson:"amount" json:"amount"`
	Status        string             `bson:"status" json:"status"`
	Plan          string             `bson:"plan" json:"plan"`
	Date          time.Time          `bson:"date" json:"date"`
}

// TransactionFilter narrows a transaction listing
type TransactionFilter struct {
	Status string
	Plan   string
}
