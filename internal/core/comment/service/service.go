package commentapp

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"postboard/internal/core/apperror"
	commentEntity "postboard/internal/core/comment"
	"postboard/internal/core/policy"
	commentPort "postboard/internal/ports/comment"
	postPort "postboard/internal/ports/post"
)

type CommentService struct {
	CommentRepository commentPort.CommentRepository
	PostRepository    postPort.PostRepository
	Logger            *zap.Logger
}

func NewCommentService(commentRepo commentPort.CommentRepository, postRepo postPort.PostRepository, logger *zap.Logger) *CommentService {
	return &CommentService{
		CommentRepository: commentRepo,
		PostRepository:    postRepo,
		Logger:            logger,
	}
}

// CreateComment attaches a comment by viewer to postID. A missing post is a
// validation error of the request body, not a 404.
func (s *CommentService) CreateComment(ctx context.Context, viewer policy.Identity, postID, content string) (*commentPort.CommentDTO, error) {
	if err := policy.RequireAuthenticated(viewer); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.Validation("content may not be blank")
	}

	pid, err := uuid.FromString(strings.TrimSpace(postID))
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("invalid post %q - object does not exist", postID))
	}
	exists, err := s.PostRepository.Exists(ctx, pid.String())
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.Validation(fmt.Sprintf("invalid post %q - object does not exist", postID))
	}

	c, err := s.CommentRepository.Create(ctx, &commentEntity.Comment{
		ID:       uuid.Must(uuid.NewV4()),
		PostID:   pid,
		AuthorID: viewer.UserID,
		Content:  content,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	s.Logger.Info("Comment created", zap.String("commentID", c.ID.String()), zap.String("postID", pid.String()))
	return commentPort.NewCommentDTO(c), nil
}

// ListComments returns the post's comments oldest first. Unknown posts yield
// an empty list.
func (s *CommentService) ListComments(ctx context.Context, postID string) ([]*commentPort.CommentDTO, error) {
	if _, err := uuid.FromString(postID); err != nil {
		return []*commentPort.CommentDTO{}, nil
	}
	comments, err := s.CommentRepository.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	dtos := make([]*commentPort.CommentDTO, 0, len(comments))
	for _, c := range comments {
		dtos = append(dtos, commentPort.NewCommentDTO(c))
	}
	return dtos, nil
}

func (s *CommentService) AdminListComments(ctx context.Context, viewer policy.Identity, search string, limit, offset int) ([]*commentPort.CommentDTO, error) {
	if err := policy.RequireStaff(viewer); err != nil {
		return nil, err
	}
	comments, err := s.CommentRepository.Search(ctx, strings.TrimSpace(search), limit, offset)
	if err != nil {
		return nil, err
	}
	dtos := make([]*commentPort.CommentDTO, 0, len(comments))
	for _, c := range comments {
		dtos = append(dtos, commentPort.NewCommentDTO(c))
	}
	return dtos, nil
}
