package mongodb

import (
	"errors"
	"testing"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestSearchFilter(t *testing.T) {
	t.Run("blank term matches everything", func(t *testing.T) {
		assert.Empty(t, searchFilter("   ", "name"))
	})

	t.Run("ors every field with a quoted case-insensitive regex", func(t *testing.T) {
		filter := searchFilter(" a.b ", "name", "email")

		or, ok := filter["$or"].(bson.A)
		require.True(t, ok)
		require.Len(t, or, 2)

		want := primitive.Regex{Pattern: `a\.b`, Options: "i"}
		assert.Equal(t, bson.M{"name": want}, or[0])
		assert.Equal(t, bson.M{"email": want}, or[1])
	})
}

func TestWithExact(t *testing.T) {
	filter := withExact(bson.M{}, "status", "active")
	withExact(filter, "subscription.plan", "  ")

	assert.Equal(t, bson.M{"status": "active"}, filter)
}

func TestUserFilter(t *testing.T) {
	filter := userFilter(models.UserFilter{Search: "alice", Status: "active", Subscription: "premium"})

	assert.Contains(t, filter, "$or")
	assert.Equal(t, "active", filter["status"])
	assert.Equal(t, "premium", filter["subscription.plan"])
}

func TestHistorySince(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pipeline := historySince(since, successful())

	require.Len(t, pipeline, 2)
	assert.Equal(t, "$unwind", pipeline[0][0].Key)

	match, ok := pipeline[1][0].Value.(bson.M)
	require.True(t, ok)
	assert.Equal(t, models.PaymentSuccess, match["billingHistory.status"])
	assert.Equal(t, bson.M{"$gte": since}, match["billingHistory.date"])
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(mongo.ErrNoDocuments), repositories.ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}
