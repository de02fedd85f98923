package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact statuses
const (
	ContactStatusNew        = "new"
	ContactStatusInProgress = "in-progress"
	ContactStatusResolved   = "resolved"
)

// ResponseEntry records one reply sent to a contact
type ResponseEntry struct {
	Subject        string    `bson:"subject" json:"subject"`
	Message        string    `bson:"message" json:"message"`
	RespondedBy    string    `bson:"respondedBy" json:"respondedBy"`
	DeliveryStatus string    `bson:"deliveryStatus" json:"deliveryStatus"`
	RespondedAt    time.Time `bson:"respondedAt" json:"respondedAt"`
}

// Contact is a message submitted through the public contact form
type Contact struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	Subject         string             `bson:"subject" json:"subject"`
	Message         string             `bson:"message" json:"message"`
	Status          string             `bson:"status" json:"status"`
	AdminNotes      string             `bson:"adminNotes" json:"adminNotes"`
	ResponseHistory []ResponseEntry    `bson:"responseHistory" json:"responseHistory"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ContactFilter narrows a contact listing
type ContactFilter struct {
	Search string
	Status string
}

// ContactInput is a public contact form submission
type ContactInput struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=300"`
	Message string `json:"message" binding:"required,max=10000"`
}

// ContactUpdate is an admin edit of status or notes
type ContactUpdate struct {
	Status     *string `json:"status" binding:"omitempty,oneof=new in-progress resolved"`
	AdminNotes *string `json:"adminNotes"`
}

// RespondRequest is an admin reply to a contact
type RespondRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

// RespondResult reports how a reply went out
type RespondResult struct {
	Message        string   `json:"message"`
	DeliveryStatus string   `json:"deliveryStatus"`
	Contact        *Contact `json:"contact"`
}
