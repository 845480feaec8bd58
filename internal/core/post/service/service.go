package postapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"postboard/internal/core/apperror"
	"postboard/internal/core/policy"
	postEntity "postboard/internal/core/post"
	postPort "postboard/internal/ports/post"
)

const maxTitleLength = 255

var errPostNotFound = apperror.NotFound("Post not found")

type PostService struct {
	PostRepository postPort.PostRepository
	Logger         *zap.Logger
}

func NewPostService(postRepo postPort.PostRepository, logger *zap.Logger) *PostService {
	return &PostService{
		PostRepository: postRepo,
		Logger:         logger,
	}
}

// ListPosts returns posts newest first, shaped for viewer.
func (s *PostService) ListPosts(ctx context.Context, viewer policy.Identity, opts postPort.ListOptions) ([]*postPort.PostDTO, error) {
	opts.WithComments = true
	posts, err := s.PostRepository.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats(ctx, viewer, posts...)
	if err != nil {
		return nil, err
	}

	dtos := make([]*postPort.PostDTO, 0, len(posts))
	for _, p := range posts {
		dtos = append(dtos, postPort.NewPostDTO(p, stats[p.ID]))
	}
	return dtos, nil
}

func (s *PostService) GetPost(ctx context.Context, viewer policy.Identity, id string) (*postPort.PostDTO, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.present(ctx, viewer, p)
}

// CreatePost stores a post authored by viewer; the author is never taken from
// the input.
func (s *PostService) CreatePost(ctx context.Context, viewer policy.Identity, in postPort.PostInput) (*postPort.PostDTO, error) {
	if err := policy.RequireAuthenticated(viewer); err != nil {
		return nil, err
	}
	fields, err := validate(in, false)
	if err != nil {
		return nil, err
	}

	p := &postEntity.Post{
		ID:       uuid.Must(uuid.NewV4()),
		AuthorID: viewer.UserID,
		Title:    fields["title"].(string),
		Content:  fields["content"].(string),
	}
	if img, ok := fields["image"]; ok {
		p.Image = img.(*string)
	}

	created, err := s.PostRepository.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	s.Logger.Info("Post created", zap.String("postID", created.ID.String()), zap.String("authorID", viewer.UserID.String()))

	return s.GetPost(ctx, viewer, created.ID.String())
}

// UpdatePost replaces (partial=false) or patches (partial=true) a post the
// viewer owns or moderates.
func (s *PostService) UpdatePost(ctx context.Context, viewer policy.Identity, id string, in postPort.PostInput, partial bool) (*postPort.PostDTO, error) {
	p, err := s.authorize(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	fields, err := validate(in, partial)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := s.PostRepository.Update(ctx, p.ID.String(), fields); err != nil {
			return nil, fmt.Errorf("failed to update post: %w", err)
		}
		s.Logger.Info("Post updated", zap.String("postID", p.ID.String()), zap.String("by", viewer.UserID.String()))
	}
	return s.GetPost(ctx, viewer, p.ID.String())
}

// DeletePost removes a post the viewer owns or moderates, with its comments
// and likes.
func (s *PostService) DeletePost(ctx context.Context, viewer policy.Identity, id string) error {
	p, err := s.authorize(ctx, viewer, id)
	if err != nil {
		return err
	}
	if err := s.PostRepository.Delete(ctx, p.ID.String()); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	s.Logger.Info("Post deleted", zap.String("postID", p.ID.String()), zap.String("by", viewer.UserID.String()))
	return nil
}

// AdminListPosts is the moderation listing with search and author filter.
func (s *PostService) AdminListPosts(ctx context.Context, viewer policy.Identity, opts postPort.ListOptions) ([]*postPort.AdminPostDTO, error) {
	if err := policy.RequireStaff(viewer); err != nil {
		return nil, err
	}
	opts.WithComments = false
	posts, err := s.PostRepository.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats(ctx, viewer, posts...)
	if err != nil {
		return nil, err
	}
	dtos := make([]*postPort.AdminPostDTO, 0, len(posts))
	for _, p := range posts {
		dtos = append(dtos, postPort.NewAdminPostDTO(p, stats[p.ID]))
	}
	return dtos, nil
}

// authorize runs the write checks in request order: authentication, lookup,
// then ownership.
func (s *PostService) authorize(ctx context.Context, viewer policy.Identity, id string) (*postEntity.Post, error) {
	if err := policy.RequireAuthenticated(viewer); err != nil {
		return nil, err
	}
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allow(viewer, policy.Write, p) {
		s.Logger.Warn("Write denied", zap.String("postID", p.ID.String()), zap.String("userID", viewer.UserID.String()))
		return nil, apperror.Forbidden(policy.PermissionDenied)
	}
	return p, nil
}

func (s *PostService) find(ctx context.Context, id string) (*postEntity.Post, error) {
	if _, err := uuid.FromString(id); err != nil {
		return nil, errPostNotFound
	}
	p, err := s.PostRepository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPostNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *PostService) present(ctx context.Context, viewer policy.Identity, p *postEntity.Post) (*postPort.PostDTO, error) {
	stats, err := s.stats(ctx, viewer, p)
	if err != nil {
		return nil, err
	}
	return postPort.NewPostDTO(p, stats[p.ID]), nil
}

func (s *PostService) stats(ctx context.Context, viewer policy.Identity, posts ...*postEntity.Post) (map[uuid.UUID]postPort.Stats, error) {
	if len(posts) == 0 {
		return map[uuid.UUID]postPort.Stats{}, nil
	}
	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	// anonymous viewers carry uuid.Nil, which never matches a like
	return s.PostRepository.Stats(ctx, ids, viewer.UserID)
}

// validate turns in into column updates. Without partial, title and content
// are required.
func validate(in postPort.PostInput, partial bool) (map[string]any, error) {
	fields := map[string]any{}

	if in.Title != nil || !partial {
		title := ""
		if in.Title != nil {
			title = strings.TrimSpace(*in.Title)
		}
		if title == "" {
			return nil, apperror.Validation("title may not be blank")
		}
		if utf8.RuneCountInString(title) > maxTitleLength {
			return nil, apperror.Validation(fmt.Sprintf("title must be at most %d characters", maxTitleLength))
		}
		fields["title"] = title
	}

	if in.Content != nil || !partial {
		content := ""
		if in.Content != nil {
			content = *in.Content
		}
		if strings.TrimSpace(content) == "" {
			return nil, apperror.Validation("content may not be blank")
		}
		fields["content"] = content
	}

	if in.Image != nil {
		if img := strings.TrimSpace(*in.Image); img != "" {
			fields["image"] = &img
		} else {
			fields["image"] = (*string)(nil)
		}
	}
	return fields, nil
}
