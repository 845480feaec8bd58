package likeapp

import (
	"context"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"postboard/internal/core/apperror"
	"postboard/internal/core/policy"
	likePort "postboard/internal/ports/like"
	postPort "postboard/internal/ports/post"
)

const (
	msgLiked   = "Post liked"
	msgUnliked = "Post unliked"
)

type LikeService struct {
	LikeRepository likePort.LikeRepository
	PostRepository postPort.PostRepository
	Logger         *zap.Logger
}

func NewLikeService(likeRepo likePort.LikeRepository, postRepo postPort.PostRepository, logger *zap.Logger) *LikeService {
	return &LikeService{
		LikeRepository: likeRepo,
		PostRepository: postRepo,
		Logger:         logger,
	}
}

// ToggleLike likes postID for viewer, or unlikes it if already liked, and
// reports the post's like count after the change.
func (s *LikeService) ToggleLike(ctx context.Context, viewer policy.Identity, postID string) (*likePort.ToggleResponse, error) {
	if err := policy.RequireAuthenticated(viewer); err != nil {
		return nil, err
	}
	if _, err := uuid.FromString(postID); err != nil {
		return nil, apperror.NotFound("Post not found")
	}
	exists, err := s.PostRepository.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NotFound("Post not found")
	}

	liked, err := s.LikeRepository.Toggle(ctx, postID, viewer.UserID.String())
	if err != nil {
		return nil, err
	}
	count, err := s.LikeRepository.CountByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	message := msgUnliked
	if liked {
		message = msgLiked
	}
	s.Logger.Info(message, zap.String("postID", postID), zap.String("userID", viewer.UserID.String()), zap.Int64("likeCount", count))

	return &likePort.ToggleResponse{
		Message:   message,
		Liked:     liked,
		LikeCount: count,
	}, nil
}

func (s *LikeService) AdminListLikes(ctx context.Context, viewer policy.Identity, limit, offset int) ([]*likePort.LikeDTO, error) {
	if err := policy.RequireStaff(viewer); err != nil {
		return nil, err
	}
	likes, err := s.LikeRepository.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	dtos := make([]*likePort.LikeDTO, 0, len(likes))
	for _, l := range likes {
		dtos = append(dtos, likePort.NewLikeDTO(l))
	}
	return dtos, nil
}
