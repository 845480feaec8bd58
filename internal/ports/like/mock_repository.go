package like

import (
	"context"

	"github.com/stretchr/testify/mock"

	"postboard/internal/core/like"
)

type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) Toggle(ctx context.Context, postID, userID string) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepository) CountByPostID(ctx context.Context, postID string) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLikeRepository) List(ctx context.Context, limit, offset int) ([]*like.Like, error) {
	args := m.Called(ctx, limit, offset)
	likes, _ := args.Get(0).([]*like.Like)
	return likes, args.Error(1)
}
