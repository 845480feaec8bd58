package user

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const MaxBioLength = 500

type User struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	Username  string    `gorm:"type:varchar(150);unique;not null"`
	Email     string    `gorm:"type:varchar(254)"`
	Password  string    `gorm:"not null"`
	Bio       *string   `gorm:"type:varchar(500)"`
	Avatar    *string   `gorm:"type:varchar(255)"` // stored reference, e.g. avatars/alice.png
	IsOnline  bool      `gorm:"not null;default:false"`
	IsStaff   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}
