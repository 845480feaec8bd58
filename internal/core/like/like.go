package like

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Like is unique per (post, user); ux_like_post_user backs the toggle.
type Like struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	PostID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:ux_like_post_user"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:ux_like_post_user;index"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}
