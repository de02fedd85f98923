package services

import (
	"context"
	"strings"
	"time"

	"github.com/actinova/admin-backend/internal/metrics"
	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	"github.com/actinova/admin-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const commentsCounter = "posts.commentsCount"

// BlogService manages blog posts and their comments
type BlogService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	logger      *zap.Logger
}

// NewBlogService creates a new BlogService
func NewBlogService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, logger *zap.Logger) *BlogService {
	return &BlogService{postRepo: postRepo, commentRepo: commentRepo, logger: logger}
}

// List returns one page of posts
func (s *BlogService) List(ctx context.Context, filter models.PostFilter, page models.PageRequest) (models.ListResult[*models.Post], error) {
	page = page.Normalize()
	posts, total, err := s.postRepo.List(ctx, filter, page)
	if err != nil {
		return models.ListResult[*models.Post]{}, repoErr("list posts", err)
	}
	return models.NewListResult(posts, page, total), nil
}

// Get returns one post
func (s *BlogService) Get(ctx context.Context, id string) (*models.Post, error) {
	postID, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, repoErr("find post", err)
	}
	return post, nil
}

// Create inserts a post with zeroed counters
func (s *BlogService) Create(ctx context.Context, input models.PostInput) (*models.Post, error) {
	now := time.Now()
	post := &models.Post{
		Title:     strings.TrimSpace(input.Title),
		Slug:      strings.TrimSpace(input.Slug),
		Content:   input.Content,
		Author:    strings.TrimSpace(input.Author),
		Tags:      input.Tags,
		Status:    input.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if post.Slug == "" {
		post.Slug = utils.Slugify(post.Title)
	}
	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, repoErr("create post", err)
	}
	return post, nil
}

// Update replaces the editable fields of a post
func (s *BlogService) Update(ctx context.Context, id string, input models.PostInput) (*models.Post, error) {
	postID, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{
		"title":   strings.TrimSpace(input.Title),
		"content": input.Content,
		"author":  strings.TrimSpace(input.Author),
	}
	if slug := strings.TrimSpace(input.Slug); slug != "" {
		set["slug"] = slug
	}
	if input.Tags != nil {
		set["tags"] = input.Tags
	}
	if input.Status != "" {
		set["status"] = input.Status
	}

	post, err := s.postRepo.Update(ctx, postID, set)
	if err != nil {
		return nil, repoErr("update post", err)
	}
	return post, nil
}

// Delete removes a post and its comments
func (s *BlogService) Delete(ctx context.Context, id string) error {
	postID, err := ParseID(id)
	if err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return repoErr("delete post", err)
	}
	removed, err := s.commentRepo.DeleteByPost(ctx, postID)
	if err != nil {
		return repoErr("delete post comments", err)
	}
	s.logger.Debug("Post deleted", zap.String("post_id", id), zap.Int64("comments_removed", removed))
	return nil
}

// ListComments returns one page of a post's comments
func (s *BlogService) ListComments(ctx context.Context, id string, page models.PageRequest) (models.ListResult[*models.Comment], error) {
	postID, err := ParseID(id)
	if err != nil {
		return models.ListResult[*models.Comment]{}, err
	}
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		return models.ListResult[*models.Comment]{}, repoErr("find post", err)
	}

	page = page.Normalize()
	comments, total, err := s.commentRepo.ListByPost(ctx, postID, page)
	if err != nil {
		return models.ListResult[*models.Comment]{}, repoErr("list comments", err)
	}
	return models.NewListResult(comments, page, total), nil
}

// AddComment stores a comment and bumps the post's counter
func (s *BlogService) AddComment(ctx context.Context, id string, input models.CommentInput) (*models.Comment, error) {
	postID, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		return nil, repoErr("find post", err)
	}

	comment := &models.Comment{
		PostID:    postID,
		Author:    strings.TrimSpace(input.Author),
		Content:   strings.TrimSpace(input.Content),
		CreatedAt: time.Now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, repoErr("create comment", err)
	}
	if err := s.postRepo.IncrementComments(ctx, postID); err != nil {
		s.counterDrift(id, "increment", err)
	}
	return comment, nil
}

// DeleteComment removes a comment of the post. The counter decrement is
// best-effort and clamped at zero.
func (s *BlogService) DeleteComment(ctx context.Context, id, commentID string) error {
	postID, err := ParseID(id)
	if err != nil {
		return err
	}
	cID, err := ParseID(commentID)
	if err != nil {
		return err
	}

	comment, err := s.commentRepo.FindByID(ctx, cID)
	if err != nil {
		return repoErr("find comment", err)
	}
	if comment.PostID != postID {
		return repoErr("find comment", repositories.ErrNotFound)
	}
	if err := s.commentRepo.Delete(ctx, cID); err != nil {
		return repoErr("delete comment", err)
	}
	if err := s.postRepo.DecrementComments(ctx, postID); err != nil {
		s.counterDrift(id, "decrement", err)
	}
	return nil
}

func (s *BlogService) counterDrift(postID, op string, err error) {
	metrics.CounterDrift.WithLabelValues(commentsCounter).Inc()
	s.logger.Warn("Comment counter not updated",
		zap.String("post_id", postID),
		zap.String("op", op),
		zap.Error(err),
	)
}
