package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names. The schema is implicit: these collections are shared
// with the learner-facing application.
const (
	UsersCollection           = "users"
	AdminsCollection          = "admins"
	PostsCollection           = "posts"
	CommentsCollection        = "comments"
	ContactsCollection        = "contacts"
	LibraryCollection         = "library"
	CategoryCoursesCollection = "explore_category_courses"
	TrendingCoursesCollection = "explore_trending"
	CourseCatalogCollection   = "course_catalog"
	CardSetsCollection        = "cardSets"
	TestsCollection           = "tests"
	InteractionsCollection    = "interactions"
	ChatsCollection           = "chats"
	PlansCollection           = "plans"
	VisitorCountersCollection = "visitorcounters"
)

// Client represents a MongoDB client
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewClient creates a new MongoDB client and verifies the connection
func NewClient(ctx context.Context, uri string, timeout time.Duration) (*Client, error) {
	// Create client options
	clientOptions := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	// Connect to MongoDB
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Check the connection
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Client{
		client: client,
	}, nil
}

// Database returns a database
func (c *Client) Database(name string) *mongo.Database {
	if c.db == nil || c.db.Name() != name {
		c.db = c.client.Database(name)
	}
	return c.db
}

// Ping checks that the server is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Disconnect disconnects from MongoDB
func (c *Client) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
