package comment

import (
	"context"

	"github.com/stretchr/testify/mock"

	"postboard/internal/core/comment"
)

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, c *comment.Comment) (*comment.Comment, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(*comment.Comment)
	return created, args.Error(1)
}

func (m *MockCommentRepository) ListByPostID(ctx context.Context, postID string) ([]*comment.Comment, error) {
	args := m.Called(ctx, postID)
	comments, _ := args.Get(0).([]*comment.Comment)
	return comments, args.Error(1)
}

func (m *MockCommentRepository) Search(ctx context.Context, query string, limit, offset int) ([]*comment.Comment, error) {
	args := m.Called(ctx, query, limit, offset)
	comments, _ := args.Get(0).([]*comment.Comment)
	return comments, args.Error(1)
}
