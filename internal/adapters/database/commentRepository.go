package database

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"postboard/internal/core/comment"
)

// CommentRepositoryDatabase implements CommentRepository on gorm.
type CommentRepositoryDatabase struct {
	db *gorm.DB
}

func NewCommentRepositoryDatabase(db *gorm.DB) *CommentRepositoryDatabase {
	return &CommentRepositoryDatabase{db: db}
}

// Create inserts c and reloads it with its author.
func (repo *CommentRepositoryDatabase) Create(ctx context.Context, c *comment.Comment) (*comment.Comment, error) {
	db := repo.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(c).Error; err != nil {
		return nil, err
	}
	var created comment.Comment
	if err := db.Preload("Author").Where("id = ?", c.ID.String()).First(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

func (repo *CommentRepositoryDatabase) ListByPostID(ctx context.Context, postID string) ([]*comment.Comment, error) {
	var comments []*comment.Comment
	if err := repo.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Search matches content or author username; newest first.
func (repo *CommentRepositoryDatabase) Search(ctx context.Context, query string, limit, offset int) ([]*comment.Comment, error) {
	q := repo.db.WithContext(ctx).Model(&comment.Comment{}).Preload("Author")
	if query != "" {
		pattern := likePattern(query)
		q = q.Select("comments.*").
			Joins("JOIN users ON users.id = comments.author_id").
			Where("comments.content LIKE ? ESCAPE '!' OR users.username LIKE ? ESCAPE '!'", pattern, pattern)
	}
	var comments []*comment.Comment
	if err := paginate(q, limit, offset).Order("comments.created_at DESC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
