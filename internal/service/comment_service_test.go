package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petguard/petguard_go_server/internal/model/dto"
	"github.com/petguard/petguard_go_server/internal/pkg/pubsub"
	"github.com/petguard/petguard_go_server/internal/pkg/ws"
	"github.com/petguard/petguard_go_server/internal/repository"
	"github.com/petguard/petguard_go_server/internal/testutil"
	"gorm.io/gorm"
)

func newCommentService(t *testing.T, db *gorm.DB, publisher *pubsub.Publisher) *CommentService {
	t.Helper()
	return NewCommentService(
		repository.NewCommentRepository(db),
		repository.NewPostRepository(db),
		repository.NewUserRepository(db),
		publisher,
	)
}

func TestCommentService_Create_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newCommentService(t, db, nil)

	user := testutil.TestUser(t, db, testutil.WithUsername("commenter"))
	post := testutil.TestPost(t, db, user.ID)

	item, err := service.Create(context.Background(), user.ID, &dto.CreateCommentRequest{
		PostID:  post.ID,
		Content: "first comment",
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, "first comment", item.Content)
	assert.Nil(t, item.ParentID)
	require.NotNil(t, item.User)
	assert.Equal(t, "commenter", item.User.Username)
}

func TestCommentService_Create_SanitizesContent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newCommentService(t, db, nil)

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	item, err := service.Create(context.Background(), user.ID, &dto.CreateCommentRequest{
		PostID:  post.ID,
		Content: `hello <script>alert("x")</script>`,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", item.Content)
}

func TestCommentService_Create_EmptyAfterSanitize(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newCommentService(t, db, nil)

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	_, err := service.Create(context.Background(), user.ID, &dto.CreateCommentRequest{
		PostID:  post.ID,
		Content: "<script>alert(1)</script>",
	})
	assert.ErrorIs(t, err, ErrCommentEmpty)
}

func TestCommentService_Create_PostNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newCommentService(t, db, nil)

	user := testutil.TestUser(t, db)

	_, err := service.Create(context.Background(), user.ID, &dto.CreateCommentRequest{
		PostID:  99999,
		Content: "orphaned",
	})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCommentService_Create_Reply(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newCommentService(t, db, nil)

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)
	parent := testutil.TestComment(t, db, user.ID, post.ID, "parent")

	item, err := service.Create(context.Background(), user.ID, &dto.CreateCommentRequest{
		PostID:   post.ID,
		Content:  "reply",
		ParentID: &parent.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, item.ParentID)
	assert.Equal(t, parent.ID, *item.ParentID)
}

func TestCommentService_Create_ParentNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newCommentService(t, db, nil)

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	missing := int64(99999)
	_, err := service.Create(context.Background(), user.ID, &dto.CreateCommentRequest{
		PostID:   post.ID,
		Content:  "reply",
		ParentID: &missing,
	})
	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestCommentService_Create_ParentInOtherPost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newCommentService(t, db, nil)

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)
	other := testutil.TestPost(t, db, user.ID)
	parent := testutil.TestComment(t, db, user.ID, other.ID, "elsewhere")

	_, err := service.Create(context.Background(), user.ID, &dto.CreateCommentRequest{
		PostID:   post.ID,
		Content:  "reply",
		ParentID: &parent.ID,
	})
	assert.ErrorIs(t, err, ErrParentNotInPost)
}

func TestCommentService_Create_PublishesEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	service := newCommentService(t, db, pubsub.NewPublisher(rdb))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *pubsub.EventMessage, 1)
	go func() {
		_ = pubsub.NewSubscriber(rdb).Subscribe(ctx, func(msg *pubsub.EventMessage) {
			received <- msg
		})
	}()
	// 等待订阅建立
	time.Sleep(50 * time.Millisecond)

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	item, err := service.Create(ctx, user.ID, &dto.CreateCommentRequest{
		PostID:  post.ID,
		Content: "broadcast me",
	})
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, pubsub.EventUpdateComments, msg.Event)
		assert.Empty(t, msg.Room)
		var payload dto.CommentItem
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, item.ID, payload.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("事件未送达")
	}
}

func TestCommentService_Delete_Subtree(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newCommentService(t, db, nil)

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)
	root := testutil.TestComment(t, db, user.ID, post.ID, "root")
	child := testutil.TestReply(t, db, user.ID, post.ID, root.ID, "child")
	grandchild := testutil.TestReply(t, db, user.ID, post.ID, child.ID, "grandchild")

	resp, err := service.Delete(context.Background(), user.ID, root.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{root.ID, child.ID, grandchild.ID}, resp.DeletedIDs)
}

func TestCommentService_Delete_NotOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newCommentService(t, db, nil)

	author := testutil.TestUser(t, db)
	intruder := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, author.ID)
	comment := testutil.TestComment(t, db, author.ID, post.ID, "mine")

	_, err := service.Delete(context.Background(), intruder.ID, comment.ID)
	assert.ErrorIs(t, err, ErrCommentPermission)
}

func TestCommentService_Delete_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newCommentService(t, db, nil)

	user := testutil.TestUser(t, db)

	_, err := service.Delete(context.Background(), user.ID, 99999)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestCommentService_Delete_PublishesToRoom(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	service := newCommentService(t, db, pubsub.NewPublisher(rdb))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *pubsub.EventMessage, 1)
	go func() {
		_ = pubsub.NewSubscriber(rdb).Subscribe(ctx, func(msg *pubsub.EventMessage) {
			received <- msg
		})
	}()
	time.Sleep(50 * time.Millisecond)

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)
	comment := testutil.TestComment(t, db, user.ID, post.ID, "doomed")

	_, err := service.Delete(ctx, user.ID, comment.ID)
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, pubsub.EventDeleteComment, msg.Event)
		assert.Equal(t, ws.RoomKey(post.ID), msg.Room)
		var payload dto.DeleteCommentResponse
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, []int64{comment.ID}, payload.DeletedIDs)
	case <-time.After(2 * time.Second):
		t.Fatal("事件未送达")
	}
}

func TestCommentService_ListByPostID_Tree(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newCommentService(t, db, nil)

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)
	root := testutil.TestComment(t, db, user.ID, post.ID, "root")
	reply := testutil.TestReply(t, db, user.ID, post.ID, root.ID, "reply")

	tree, total, err := service.ListByPostID(post.ID, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, tree, 1)
	assert.Equal(t, root.ID, tree[0].ID)
	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, reply.ID, tree[0].Replies[0].ID)
	assert.Equal(t, 1, tree[0].Replies[0].Level)
}

func TestCommentService_ListByPostID_ExcludesDeleted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newCommentService(t, db, nil)

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)
	keep := testutil.TestComment(t, db, user.ID, post.ID, "keep")
	gone := testutil.TestComment(t, db, user.ID, post.ID, "gone")

	_, err := service.Delete(context.Background(), user.ID, gone.ID)
	require.NoError(t, err)

	tree, total, err := service.ListByPostID(post.ID, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, tree, 1)
	assert.Equal(t, keep.ID, tree[0].ID)
}

func TestCommentService_ListByPostID_PostNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newCommentService(t, db, nil)

	_, _, err := service.ListByPostID(99999, 1, 50)
	assert.ErrorIs(t, err, ErrPostNotFound)
}
