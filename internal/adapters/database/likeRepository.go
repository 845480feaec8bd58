package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"postboard/internal/core/like"
)

const maxToggleAttempts = 3

var ErrToggleContention = errors.New("like toggle did not settle")

// LikeRepositoryDatabase implements LikeRepository on gorm.
type LikeRepositoryDatabase struct {
	db *gorm.DB
}

func NewLikeRepositoryDatabase(db *gorm.DB) *LikeRepositoryDatabase {
	return &LikeRepositoryDatabase{db: db}
}

// Toggle inserts the like guarded by ux_like_post_user. When the insert is
// ignored the pair already exists and is deleted instead. A delete that finds
// nothing means a concurrent toggle removed the row first, so the whole step
// is retried.
func (repo *LikeRepositoryDatabase) Toggle(ctx context.Context, postID, userID string) (bool, error) {
	pid, err := uuid.FromString(postID)
	if err != nil {
		return false, fmt.Errorf("invalid post id: %w", err)
	}
	uid, err := uuid.FromString(userID)
	if err != nil {
		return false, fmt.Errorf("invalid user id: %w", err)
	}

	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		var liked, settled bool
		err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like.Like{PostID: pid, UserID: uid})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				liked, settled = true, true
				return nil
			}

			res = tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&like.Like{})
			if res.Error != nil {
				return res.Error
			}
			settled = res.RowsAffected > 0
			return nil
		})
		if err != nil {
			return false, err
		}
		if settled {
			return liked, nil
		}
	}
	return false, ErrToggleContention
}

func (repo *LikeRepositoryDatabase) CountByPostID(ctx context.Context, postID string) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&like.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *LikeRepositoryDatabase) List(ctx context.Context, limit, offset int) ([]*like.Like, error) {
	var likes []*like.Like
	if err := paginate(repo.db.WithContext(ctx), limit, offset).Order("created_at DESC").Find(&likes).Error; err != nil {
		return nil, err
	}
	return likes, nil
}
