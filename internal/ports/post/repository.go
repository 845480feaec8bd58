package post

import (
	"context"
	"time"

	"github.com/gofrs/uuid"

	"postboard/internal/core/post"
	commentPort "postboard/internal/ports/comment"
)

// PostRepository is the port for post persistence.
type PostRepository interface {
	Create(ctx context.Context, post *post.Post) (*post.Post, error)
	// FindByID loads the author and the comments (with their authors).
	FindByID(ctx context.Context, id string) (*post.Post, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, opts ListOptions) ([]*post.Post, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	// Delete removes the post together with its comments and likes.
	Delete(ctx context.Context, id string) error
	// Stats returns derived counters for each post id. viewerID may be
	// uuid.Nil, in which case ViewerHasLiked is always false.
	Stats(ctx context.Context, postIDs []uuid.UUID, viewerID uuid.UUID) (map[uuid.UUID]Stats, error)
}

// ListOptions narrows List. Zero value lists everything newest first.
type ListOptions struct {
	Search   string
	AuthorID string
	Limit    int
	Offset   int
	// WithComments preloads comments and their authors.
	WithComments bool
}

// PostInput is the writable part of a post. For partial updates nil fields
// are left untouched; an empty Image clears the image.
type PostInput struct {
	Title   *string
	Content *string
	Image   *string
}

type Stats struct {
	LikeCount      int64
	CommentCount   int64
	ViewerHasLiked bool
}

type PostDTO struct {
	ID           string                    `json:"id"`
	Author       string                    `json:"author"`
	AuthorName   string                    `json:"author_name"`
	AuthorAvatar *string                   `json:"author_avatar"`
	Title        string                    `json:"title"`
	Content      string                    `json:"content"`
	Image        *string                   `json:"image"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
	LikeCount    int64                     `json:"like_count"`
	CommentCount int64                     `json:"comment_count"`
	UserHasLiked bool                      `json:"user_has_liked"`
	Comments     []*commentPort.CommentDTO `json:"comments"`
}

// NewPostDTO shapes p for clients. p.Author and p.Comments must be loaded.
func NewPostDTO(p *post.Post, s Stats) *PostDTO {
	return &PostDTO{
		ID:           p.ID.String(),
		Author:       p.AuthorID.String(),
		AuthorName:   p.Author.Username,
		AuthorAvatar: p.Author.Avatar,
		Title:        p.Title,
		Content:      p.Content,
		Image:        p.Image,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		LikeCount:    s.LikeCount,
		CommentCount: s.CommentCount,
		UserHasLiked: s.ViewerHasLiked,
		Comments:     commentPort.NewCommentDTOs(p.Comments),
	}
}

// AdminPostDTO is the moderation listing row.
type AdminPostDTO struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	AuthorName   string    `json:"author_name"`
	CreatedAt    time.Time `json:"created_at"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
}

func NewAdminPostDTO(p *post.Post, s Stats) *AdminPostDTO {
	return &AdminPostDTO{
		ID:           p.ID.String(),
		Title:        p.Title,
		Author:       p.AuthorID.String(),
		AuthorName:   p.Author.Username,
		CreatedAt:    p.CreatedAt,
		LikeCount:    s.LikeCount,
		CommentCount: s.CommentCount,
	}
}
