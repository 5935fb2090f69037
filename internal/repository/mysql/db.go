package mysql

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"humansonly/internal/model"
)

var DB *gorm.DB

// InitDB 建立mysql连接。TranslateError开启后唯一键冲突统一翻译成
// gorm.ErrDuplicatedKey，仓储层再映射为业务Conflict错误。
func InitDB(dsn string) error {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// AutoMigrate 开发阶段自动建表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.CommunityMember{},
		&model.CommunityBan{},
		&model.Post{},
		&model.Comment{},
		&model.PostVote{},
		&model.CommentVote{},
		&model.EventOutbox{},
	)
}
