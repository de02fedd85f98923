package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Card is one flashcard
type Card struct {
	Front string `bson:"front" json:"front"`
	Back  string `bson:"back" json:"back"`
}

// CardSet is a set of flashcards generated by a learner
type CardSet struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title     string             `bson:"title" json:"title"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Cards     []Card             `bson:"cards" json:"cards"`
	IsPublic  bool               `bson:"isPublic" json:"isPublic"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CardSetListItem is a card set with usage stats
type CardSetListItem struct {
	*CardSet
	CardCount     int   `json:"cardCount"`
	StudySessions int64 `json:"studySessions"`
}
