package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification kinds
const (
	NotificationNewContact   = "new_contact"
	NotificationNewUser      = "new_user"
	NotificationPendingAdmin = "pending_admin"
)

// Notification is one item of the admin activity feed. It is derived from
// other collections at read time and never stored.
type Notification struct {
	Type      string             `json:"type"`
	RefID     primitive.ObjectID `json:"refId"`
	Title     string             `json:"title"`
	Message   string             `json:"message"`
	CreatedAt time.Time          `json:"createdAt"`
}

// NotificationFeed is the body of GET /api/notifications
type NotificationFeed struct {
	Since         time.Time       `json:"since"`
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int             `json:"unreadCount"`
}
