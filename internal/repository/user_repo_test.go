package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/petguard/petguard_go_server/internal/model"
	"github.com/petguard/petguard_go_server/internal/testutil"
)

func TestUserRepository_Create_WithSocialLinks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	repo := NewUserRepository(db)

	user := &model.User{
		Name:     "Ana",
		LastName: "García",
		Username: "ana_g",
		Email:    "ana@example.com",
		Password: "hash",
		IsActive: true,
	}

	require.NoError(t, repo.Create(user))
	assert.NotZero(t, user.ID)

	// 注册时初始化四个默认社交链接
	var links []*model.SocialLink
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&links).Error)
	require.Len(t, links, len(model.DefaultPlatforms))

	platforms := make([]string, 0, len(links))
	for _, l := range links {
		platforms = append(platforms, l.Platform)
		assert.Empty(t, l.URL)
	}
	assert.ElementsMatch(t, model.DefaultPlatforms, platforms)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	repo := NewUserRepository(db)

	user := testutil.TestUser(t, db, testutil.WithEmail("find@example.com"))

	found, err := repo.GetByEmail("find@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.GetByEmail("missing@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_GetActiveByUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	repo := NewUserRepository(db)

	user := &model.User{
		Name:     "Ana",
		Username: "ana_profile",
		Email:    "profile@example.com",
		Password: "hash",
		IsActive: true,
	}
	require.NoError(t, repo.Create(user))

	found, err := repo.GetActiveByUsername("ana_profile")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Len(t, found.SocialLinks, len(model.DefaultPlatforms))
}

func TestUserRepository_GetActiveByID_Inactive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	repo := NewUserRepository(db)

	user := testutil.TestUser(t, db, testutil.WithInactive())

	_, err := repo.GetActiveByID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	repo := NewUserRepository(db)

	testutil.TestUser(t, db, testutil.WithEmail("taken@example.com"))

	exists, err := repo.ExistsByEmail("taken@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail("free@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_SoftDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	repo := NewUserRepository(db)

	user := testutil.TestUser(t, db)

	require.NoError(t, repo.SoftDelete(user.ID))

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.False(t, updated.IsActive)
	assert.NotNil(t, updated.DeletedAt)
}

func TestUserRepository_UpdateAvatarURL(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	repo := NewUserRepository(db)

	user := testutil.TestUser(t, db)

	require.NoError(t, repo.UpdateAvatarURL(user.ID, "https://cdn.example.com/new.png"))

	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, "https://cdn.example.com/new.png", updated.AvatarURL)
}

func TestUserRepository_SearchActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	repo := NewUserRepository(db)

	testutil.TestUser(t, db, testutil.WithUsername("gato_feliz"))
	testutil.TestUser(t, db, testutil.WithUsername("perro_fiel"))

	users, err := repo.SearchActive("gato", 10)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "gato_feliz", users[0].Username)
}
