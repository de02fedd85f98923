package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question is one quiz question
type Question struct {
	Prompt  string   `bson:"prompt" json:"prompt"`
	Options []string `bson:"options" json:"options"`
	Answer  string   `bson:"answer" json:"answer"`
}

// Test is a generated quiz
type Test struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title      string             `bson:"title" json:"title"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Subject    string             `bson:"subject" json:"subject"`
	Difficulty string             `bson:"difficulty" json:"difficulty"`
	Questions  []Question         `bson:"questions" json:"questions"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// TestListItem is a test with usage stats
type TestListItem struct {
	*Test
	QuestionCount int   `json:"questionCount"`
	Attempts      int64 `json:"attempts"`
}

// TestFilter narrows a test listing
type TestFilter struct {
	Search     string
	Difficulty string
}
