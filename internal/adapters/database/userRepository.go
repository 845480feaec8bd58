package database

import (
	"context"

	"gorm.io/gorm"

	"postboard/internal/core/user"
)

// UserRepositoryDatabase implements UserRepository on gorm.
type UserRepositoryDatabase struct {
	db *gorm.DB
}

func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{db: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if err := repo.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) List(ctx context.Context) ([]*user.User, error) {
	var users []*user.User
	if err := repo.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepositoryDatabase) Update(ctx context.Context, id string, fields map[string]any) error {
	return repo.db.WithContext(ctx).Model(&user.User{}).Where("id = ?", id).Updates(fields).Error
}

func (repo *UserRepositoryDatabase) SetOnline(ctx context.Context, id string, online bool) error {
	return repo.db.WithContext(ctx).Model(&user.User{}).Where("id = ?", id).Update("is_online", online).Error
}
