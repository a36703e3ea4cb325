package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestNotificationRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns id", func(mt *mtest.T) {
		repo := NewNotificationRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		n := &Notification{ReceiverID: 1, SenderID: 2, Type: NotificationCommentReply, CreatedAt: time.Now()}
		require.NoError(mt, repo.CreateNotification(context.Background(), n))
		assert.False(mt, n.ID.IsZero())
	})

	mt.Run("list decodes documents", func(mt *mtest.T) {
		repo := NewNotificationRepo(mt.DB)
		ns := mt.DB.Name() + ".notifications"
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: id},
				{Key: "receiver_id", Value: int64(1)},
				{Key: "sender_id", Value: int64(2)},
				{Key: "type", Value: "comment_like"},
				{Key: "is_read", Value: false},
			}),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch),
		)

		list, err := repo.GetNotificationList(context.Background(), 1, 20, 0)
		require.NoError(mt, err)
		require.Len(mt, list, 1)
		assert.Equal(mt, id, list[0].ID)
		assert.Equal(mt, NotificationCommentLike, list[0].Type)
	})

	mt.Run("mark read misses foreign notification", func(mt *mtest.T) {
		repo := NewNotificationRepo(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}})

		err := repo.MarkAsRead(context.Background(), 1, primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, ErrNotificationNotFound)
	})

	mt.Run("mark read rejects bad id", func(mt *mtest.T) {
		repo := NewNotificationRepo(mt.DB)
		assert.ErrorIs(mt, repo.MarkAsRead(context.Background(), 1, "nope"), ErrNotificationNotFound)
	})
}
