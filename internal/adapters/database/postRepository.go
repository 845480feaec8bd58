package database

import (
	"context"
	"strings"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"postboard/internal/core/comment"
	"postboard/internal/core/like"
	"postboard/internal/core/post"
	postPort "postboard/internal/ports/post"
)

// PostRepositoryDatabase implements PostRepository on gorm.
type PostRepositoryDatabase struct {
	db *gorm.DB
}

func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id string) (*post.Post, error) {
	var p post.Post
	if err := withComments(repo.db.WithContext(ctx).Preload("Author")).
		Where("id = ?", id).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&post.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (repo *PostRepositoryDatabase) List(ctx context.Context, opts postPort.ListOptions) ([]*post.Post, error) {
	q := repo.db.WithContext(ctx).Model(&post.Post{}).Preload("Author")
	if opts.WithComments {
		q = withComments(q)
	}
	if opts.Search != "" {
		pattern := likePattern(opts.Search)
		q = q.Select("posts.*").
			Joins("JOIN users ON users.id = posts.author_id").
			Where("posts.title LIKE ? ESCAPE '!' OR posts.content LIKE ? ESCAPE '!' OR users.username LIKE ? ESCAPE '!'", pattern, pattern, pattern)
	}
	if opts.AuthorID != "" {
		q = q.Where("posts.author_id = ?", opts.AuthorID)
	}
	q = paginate(q, opts.Limit, opts.Offset)

	var posts []*post.Post
	if err := q.Order("posts.created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) Update(ctx context.Context, id string, fields map[string]any) error {
	return repo.db.WithContext(ctx).Model(&post.Post{}).Where("id = ?", id).Updates(fields).Error
}

// Delete cascades explicitly so the behaviour does not depend on the driver
// enforcing foreign keys.
func (repo *PostRepositoryDatabase) Delete(ctx context.Context, id string) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&like.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&comment.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&post.Post{}).Error
	})
}

type postCount struct {
	PostID string
	N      int64
}

func (repo *PostRepositoryDatabase) Stats(ctx context.Context, postIDs []uuid.UUID, viewerID uuid.UUID) (map[uuid.UUID]postPort.Stats, error) {
	stats := make(map[uuid.UUID]postPort.Stats, len(postIDs))
	if len(postIDs) == 0 {
		return stats, nil
	}
	ids := make([]string, 0, len(postIDs))
	for _, id := range postIDs {
		ids = append(ids, id.String())
		stats[id] = postPort.Stats{}
	}
	db := repo.db.WithContext(ctx)

	var likeCounts []postCount
	if err := db.Model(&like.Like{}).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&likeCounts).Error; err != nil {
		return nil, err
	}
	for _, c := range likeCounts {
		id := uuid.FromStringOrNil(c.PostID)
		s := stats[id]
		s.LikeCount = c.N
		stats[id] = s
	}

	var commentCounts []postCount
	if err := db.Model(&comment.Comment{}).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&commentCounts).Error; err != nil {
		return nil, err
	}
	for _, c := range commentCounts {
		id := uuid.FromStringOrNil(c.PostID)
		s := stats[id]
		s.CommentCount = c.N
		stats[id] = s
	}

	if viewerID == uuid.Nil {
		return stats, nil
	}
	var liked []string
	if err := db.Model(&like.Like{}).
		Where("post_id IN ? AND user_id = ?", ids, viewerID.String()).
		Pluck("post_id", &liked).Error; err != nil {
		return nil, err
	}
	for _, pid := range liked {
		id := uuid.FromStringOrNil(pid)
		s := stats[id]
		s.ViewerHasLiked = true
		stats[id] = s
	}
	return stats, nil
}

func withComments(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Comments.Author")
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern matches s literally anywhere in a column. '!' is the escape
// character because a backslash is quoted differently by mysql and postgres.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func paginate(q *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	return q
}
