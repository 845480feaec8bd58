package post

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"postboard/internal/core/comment"
	"postboard/internal/core/like"
	"postboard/internal/core/user"
)

type Post struct {
	ID        uuid.UUID         `gorm:"primary_key;type:char(36)"`
	AuthorID  uuid.UUID         `gorm:"type:char(36);not null;index"`
	Author    user.User         `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Title     string            `gorm:"type:varchar(255);not null"`
	Content   string            `gorm:"type:text;not null"`
	Image     *string           `gorm:"type:varchar(255)"` // stored reference, e.g. posts/cat.jpg
	Comments  []comment.Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Likes     []like.Like       `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}

func (p *Post) OwnerID() uuid.UUID { return p.AuthorID }
