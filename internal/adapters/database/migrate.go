package database

import (
	"gorm.io/gorm"

	"postboard/internal/core/comment"
	"postboard/internal/core/like"
	"postboard/internal/core/post"
	"postboard/internal/core/user"
)

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&user.User{},
		&post.Post{},
		&comment.Comment{},
		&like.Like{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
