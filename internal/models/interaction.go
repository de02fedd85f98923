package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interaction types
const (
	InteractionFlashcard = "flashcard"
	InteractionTest      = "test"
	InteractionCourse    = "course"
	InteractionChat      = "chat"
)

// Interaction records one learner action against some content
type Interaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Type      string             `bson:"type" json:"type"`
	TargetID  primitive.ObjectID `bson:"targetId,omitempty" json:"targetId,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// DayLayout formats day keys such as visitor counter ids and chart dates
const DayLayout = "2006-01-02"

// VisitorCounter counts site visits for one day. ID is YYYY-MM-DD.
type VisitorCounter struct {
	ID        string    `bson:"_id" json:"date"`
	Count     int64     `bson:"count" json:"count"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
