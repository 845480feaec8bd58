package comment

import (
	"context"
	"time"

	"postboard/internal/core/comment"
)

// CommentRepository is the port for comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, comment *comment.Comment) (*comment.Comment, error)
	// ListByPostID returns the post's comments oldest first, authors loaded.
	ListByPostID(ctx context.Context, postID string) ([]*comment.Comment, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*comment.Comment, error)
}

type CommentDTO struct {
	ID           string    `json:"id"`
	Post         string    `json:"post"`
	Author       string    `json:"author"`
	AuthorName   string    `json:"author_name"`
	AuthorAvatar *string   `json:"author_avatar"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewCommentDTO expects c.Author to be loaded.
func NewCommentDTO(c *comment.Comment) *CommentDTO {
	return &CommentDTO{
		ID:           c.ID.String(),
		Post:         c.PostID.String(),
		Author:       c.AuthorID.String(),
		AuthorName:   c.Author.Username,
		AuthorAvatar: c.Author.Avatar,
		Content:      c.Content,
		CreatedAt:    c.CreatedAt,
	}
}

func NewCommentDTOs(comments []comment.Comment) []*CommentDTO {
	dtos := make([]*CommentDTO, 0, len(comments))
	for i := range comments {
		dtos = append(dtos, NewCommentDTO(&comments[i]))
	}
	return dtos
}
