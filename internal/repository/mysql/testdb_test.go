package mysql

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"humansonly/internal/model"
)

// newTestDB 每个测试独立的内存库。单连接，避免内存库多连接看到不同数据。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func seedCommunity(t *testing.T, db *gorm.DB, slug string, creatorID uint64) *model.Community {
	t.Helper()
	repo := &CommunityRepository{DB: db}
	c, err := repo.Create(context.Background(), &model.Community{
		Slug:      slug,
		Name:      slug,
		CreatorID: creatorID,
	})
	if err != nil {
		t.Fatalf("seed community %s: %v", slug, err)
	}
	return c
}

func seedPost(t *testing.T, db *gorm.DB, communityID, authorID uint64) *model.Post {
	t.Helper()
	p := &model.Post{
		CommunityID: communityID,
		AuthorID:    authorID,
		Title:       "t",
		Content:     "c",
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return p
}

func seedComment(t *testing.T, db *gorm.DB, postID, authorID uint64) *model.Comment {
	t.Helper()
	c := &model.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  "c",
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	return c
}

func userKarma(t *testing.T, db *gorm.DB, userID uint64) (karma, post, comment int64) {
	t.Helper()
	var u model.User
	if err := db.First(&u, userID).Error; err != nil {
		t.Fatalf("load user %d: %v", userID, err)
	}
	return u.Karma, u.PostKarma, u.CommentKarma
}
