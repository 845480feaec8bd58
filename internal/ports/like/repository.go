package like

import (
	"context"
	"time"

	"postboard/internal/core/like"
)

// LikeRepository is the port for like persistence.
type LikeRepository interface {
	// Toggle atomically creates the (post, user) like if absent or removes it
	// if present, and reports the resulting state.
	Toggle(ctx context.Context, postID, userID string) (liked bool, err error)
	CountByPostID(ctx context.Context, postID string) (int64, error)
	List(ctx context.Context, limit, offset int) ([]*like.Like, error)
}

type ToggleResponse struct {
	Message   string `json:"message"`
	Liked     bool   `json:"liked"`
	LikeCount int64  `json:"like_count"`
}

type LikeDTO struct {
	ID        string    `json:"id"`
	Post      string    `json:"post"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

func NewLikeDTO(l *like.Like) *LikeDTO {
	return &LikeDTO{
		ID:        l.ID.String(),
		Post:      l.PostID.String(),
		User:      l.UserID.String(),
		CreatedAt: l.CreatedAt,
	}
}
