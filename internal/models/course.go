package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course provenances
const (
	SourceOfficial  = "official"
	SourceCommunity = "community"
	SourceTrending  = "trending"
)

// CourseModule is one module of a course. Sources store modules with
// varying shapes, so only the title is relied on.
type CourseModule struct {
	Title string `bson:"title" json:"title"`
}

// CategoryCourse is an official course embedded in a category document
type CategoryCourse struct {
	Title      string         `bson:"title"`
	Difficulty string         `bson:"difficulty"`
	Modules    []CourseModule `bson:"modules"`
	Creator    string         `bson:"creator"`
	Price      float64        `bson:"price"`
	Rating     float64        `bson:"rating"`
}

// CourseCategory is a document of explore_category_courses
type CourseCategory struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Name    string             `bson:"name"`
	Courses []CategoryCourse   `bson:"courses"`
}

// LibraryCourse is a community course document in the library collection
type LibraryCourse struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Title      string             `bson:"title"`
	Difficulty string             `bson:"difficulty"`
	Modules    []CourseModule     `bson:"modules"`
	Creator    string             `bson:"creator"`
	Price      float64            `bson:"price"`
	Rating     float64            `bson:"rating"`
	Category   string             `bson:"category"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

// TrendingCourse is a topic document of explore_trending
type TrendingCourse struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Topic      string             `bson:"topic"`
	Difficulty string             `bson:"difficulty"`
	Modules    []CourseModule     `bson:"modules"`
	Creator    string             `bson:"creator"`
	Price      float64            `bson:"price"`
	Rating     float64            `bson:"rating"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

// CatalogCourse is the normalized read model shared by all provenances.
// Key is stable across reconciliations: it does not depend on array order.
// SourceIndex is the array position of an official course as of the last
// reconciliation; writes back to the category re-check it against Title.
type CatalogCourse struct {
	Key          string             `bson:"_id" json:"id"`
	Source       string             `bson:"source" json:"source"`
	SourceID     primitive.ObjectID `bson:"sourceId" json:"sourceId"`
	SourceIndex  int                `bson:"sourceIndex" json:"-"`
	Category     string             `bson:"category,omitempty" json:"category,omitempty"`
	Title        string             `bson:"title" json:"title"`
	Difficulty   string             `bson:"difficulty" json:"difficulty"`
	ModuleCount  int                `bson:"moduleCount" json:"moduleCount"`
	Creator      string             `bson:"creator" json:"creator"`
	Price        float64            `bson:"price" json:"price"`
	Rating       float64            `bson:"rating" json:"rating"`
	ReconciledAt time.Time          `bson:"reconciledAt" json:"reconciledAt"`
}

// CourseFilter narrows a catalog listing
type CourseFilter struct {
	Search     string
	Difficulty string
	Source     string
}

// CourseUpdate holds the editable course fields
type CourseUpdate struct {
	Title      *string  `json:"title"`
	Difficulty *string  `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	Price      *float64 `json:"price" binding:"omitempty,gte=0"`
}

// IsEmpty reports whether no field was supplied
func (u CourseUpdate) IsEmpty() bool {
	return u.Title == nil && u.Difficulty == nil && u.Price == nil
}

// ReconcileResult summarizes one catalog reconciliation run
type ReconcileResult struct {
	Official  int       `json:"official"`
	Community int       `json:"community"`
	Trending  int       `json:"trending"`
	Removed   int64     `json:"removed"`
	RanAt     time.Time `json:"ranAt"`
}
