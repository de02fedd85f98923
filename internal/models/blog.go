package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post statuses
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// Post is a blog post
type Post struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title         string             `bson:"title" json:"title"`
	Slug          string             `bson:"slug" json:"slug"`
	Content       string             `bson:"content" json:"content"`
	Author        string             `bson:"author" json:"author"`
	Tags          []string           `bson:"tags" json:"tags"`
	Status        string             `bson:"status" json:"status"`
	Views         int64              `bson:"views" json:"views"`
	Likes         int64              `bson:"likes" json:"likes"`
	CommentsCount int64              `bson:"commentsCount" json:"commentsCount"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PostFilter narrows a post listing
type PostFilter struct {
	Search string
	Status string
}

// PostInput is the writable part of a post
type PostInput struct {
	Title   string   `json:"title" binding:"required"`
	Slug    string   `json:"slug"`
	Content string   `json:"content" binding:"required"`
	Author  string   `json:"author" binding:"required"`
	Tags    []string `json:"tags"`
	Status  string   `json:"status" binding:"omitempty,oneof=draft published"`
}

// Comment is a reader comment on a post
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PostID    primitive.ObjectID `bson:"postId" json:"postId"`
	Author    string             `bson:"author" json:"author"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// CommentInput is the body of a new comment
type CommentInput struct {
	Author  string `json:"author" binding:"required"`
	Content string `json:"content" binding:"required"`
}
