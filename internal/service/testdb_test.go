package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"humansonly/internal/model"
	"humansonly/internal/repository/mysql"
)

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

	if err := mysql.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Email: username + "@example.com", Password: "x"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func seedCommunity(t *testing.T, db *gorm.DB, slug string, creatorID uint64) *model.Community {
	t.Helper()
	svc := NewCommunityService(db)
	c, err := svc.CreateCommunity(context.Background(), creatorID, slug, slug, "")
	if err != nil {
		t.Fatalf("seed community %s: %v", slug, err)
	}
	return c
}

func seedPost(t *testing.T, db *gorm.DB, communityID, authorID uint64) *model.Post {
	t.Helper()
	p := &model.Post{CommunityID: communityID, AuthorID: authorID, Title: "t", Content: "c"}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return p
}
