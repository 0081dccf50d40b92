package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petguard/petguard_go_server/internal/model/dto"
	"github.com/petguard/petguard_go_server/internal/pkg/readcount"
	"github.com/petguard/petguard_go_server/internal/repository"
	"github.com/petguard/petguard_go_server/internal/testutil"
	"gorm.io/gorm"
)

func newPostService(t *testing.T, db *gorm.DB, counter *readcount.Counter) *PostService {
	t.Helper()
	return NewPostService(
		repository.NewPostRepository(db),
		repository.NewLikeRepository(db),
		repository.NewUserRepository(db),
		counter,
	)
}

func uniqueSlug(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func TestPostService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newPostService(t, db, nil)

	user := testutil.TestUser(t, db, testutil.WithUsername("author"))

	item, err := service.Create(user.ID, &dto.CreatePostRequest{
		Title:   "Caring for senior dogs",
		Content: "<p>Long article</p>",
		Slug:    uniqueSlug("senior-dogs"),
		Tags:    []string{"Dogs", " health ", "dogs", ""},
		Images: []dto.PostImage{
			{URL: "https://cdn.example.com/1.jpg", Alt: "dog"},
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, "Caring for senior dogs", item.Title)
	// 标签小写化并去重
	assert.Equal(t, []string{"dogs", "health"}, item.Tags)
	require.Len(t, item.Images, 1)
	assert.Equal(t, "https://cdn.example.com/1.jpg", item.Images[0].URL)
	require.NotNil(t, item.User)
	assert.Equal(t, "author", item.User.Username)
}

func TestPostService_Create_SanitizesContent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newPostService(t, db, nil)

	user := testutil.TestUser(t, db)

	item, err := service.Create(user.ID, &dto.CreatePostRequest{
		Title:   "XSS",
		Content: `<p>ok</p><script>alert("x")</script>`,
		Slug:    uniqueSlug("xss"),
	})
	require.NoError(t, err)
	assert.Equal(t, "<p>ok</p>", item.Content)
}

func TestPostService_Create_SlugExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newPostService(t, db, nil)

	user := testutil.TestUser(t, db)
	slug := uniqueSlug("dup")
	testutil.TestPost(t, db, user.ID, testutil.WithSlug(slug))

	_, err := service.Create(user.ID, &dto.CreatePostRequest{
		Title:   "Dup",
		Content: "body",
		Slug:    slug,
	})
	assert.ErrorIs(t, err, ErrSlugExists)
}

func TestPostService_GetBySlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newPostService(t, db, nil)

	user := testutil.TestUser(t, db)
	slug := uniqueSlug("find-me")
	post := testutil.TestPost(t, db, user.ID, testutil.WithSlug(slug))

	item, err := service.GetBySlug(slug)
	require.NoError(t, err)
	assert.Equal(t, post.ID, item.ID)

	_, err = service.GetBySlug("no-such-slug")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_Update_Permission(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newPostService(t, db, nil)

	author := testutil.TestUser(t, db)
	intruder := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, author.ID)

	title := "hijacked"
	_, err := service.Update(intruder.ID, post.ID, &dto.UpdatePostRequest{Title: &title})
	assert.ErrorIs(t, err, ErrPostPermission)
}

func TestPostService_Update_ReplacesTags(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newPostService(t, db, nil)

	user := testutil.TestUser(t, db)

	item, err := service.Create(user.ID, &dto.CreatePostRequest{
		Title:   "Tagged",
		Content: "body",
		Slug:    uniqueSlug("tagged"),
		Tags:    []string{"old"},
	})
	require.NoError(t, err)

	updated, err := service.Update(user.ID, item.ID, &dto.UpdatePostRequest{
		Tags: []string{"New", "fresh"},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"new", "fresh"}, updated.Tags)
}

func TestPostService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newPostService(t, db, nil)

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	require.NoError(t, service.Delete(user.ID, post.ID))

	_, err := service.GetByID(post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_LikeUnlike(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newPostService(t, db, nil)

	author := testutil.TestUser(t, db)
	fan := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, author.ID)

	require.NoError(t, service.Like(fan.ID, post.ID))
	assert.ErrorIs(t, service.Like(fan.ID, post.ID), ErrAlreadyLiked)

	item, err := service.GetByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), item.TotalLikes)
	require.Len(t, item.LikedBy, 1)
	assert.Equal(t, fan.ID, item.LikedBy[0].ID)

	require.NoError(t, service.Unlike(fan.ID, post.ID))
	assert.ErrorIs(t, service.Unlike(fan.ID, post.ID), ErrNotLiked)
}

func TestPostService_Like_PostNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newPostService(t, db, nil)

	user := testutil.TestUser(t, db)
	assert.ErrorIs(t, service.Like(user.ID, 99999), ErrPostNotFound)
}

func TestPostService_Trending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newPostService(t, db, nil)

	user := testutil.TestUser(t, db)
	hot := testutil.TestPost(t, db, user.ID, testutil.WithReadCount(100))
	testutil.TestPost(t, db, user.ID, testutil.WithReadCount(5))
	testutil.TestPost(t, db, user.ID, testutil.WithReadCount(50), testutil.WithDraft())

	items, err := service.Trending(2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	// 草稿不进热门榜
	assert.Equal(t, hot.ID, items[0].ID)
}

func TestPostService_Trending_DefaultLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newPostService(t, db, nil)

	user := testutil.TestUser(t, db)
	for i := 0; i < 7; i++ {
		testutil.TestPost(t, db, user.ID, testutil.WithReadCount(int64(i+1)))
	}

	// 不传 limit 时取前 5
	items, err := service.Trending(0)
	require.NoError(t, err)
	assert.Len(t, items, 5)
}

func TestPostService_Tags(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newPostService(t, db, nil)

	user := testutil.TestUser(t, db)
	for i := 0; i < 2; i++ {
		_, err := service.Create(user.ID, &dto.CreatePostRequest{
			Title:   "T",
			Content: "body",
			Slug:    uniqueSlug("tags"),
			Tags:    []string{"popular"},
		})
		require.NoError(t, err)
	}

	tags, err := service.Tags()
	require.NoError(t, err)
	require.NotEmpty(t, tags)
	assert.Equal(t, "popular", tags[0].Tag)
	assert.Equal(t, int64(2), tags[0].Count)
}

func TestPostService_IncrReadCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	counter := readcount.NewCounter(rdb)
	service := newPostService(t, db, counter)

	user := testutil.TestUser(t, db)
	post := testutil.TestPost(t, db, user.ID)

	ctx := context.Background()
	require.NoError(t, service.IncrReadCount(ctx, post.ID))
	require.NoError(t, service.IncrReadCount(ctx, post.ID))

	pending, err := counter.Pending(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)

	assert.ErrorIs(t, service.IncrReadCount(ctx, 99999), ErrPostNotFound)
}
