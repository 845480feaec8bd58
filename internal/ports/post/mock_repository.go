package post

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"postboard/internal/core/post"
)

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(*post.Post)
	return created, args.Error(1)
}

func (m *MockPostRepository) FindByID(ctx context.Context, id string) (*post.Post, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*post.Post)
	return p, args.Error(1)
}

func (m *MockPostRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, opts ListOptions) ([]*post.Post, error) {
	args := m.Called(ctx, opts)
	posts, _ := args.Get(0).([]*post.Post)
	return posts, args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) Stats(ctx context.Context, postIDs []uuid.UUID, viewerID uuid.UUID) (map[uuid.UUID]Stats, error) {
	args := m.Called(ctx, postIDs, viewerID)
	stats, _ := args.Get(0).(map[uuid.UUID]Stats)
	return stats, args.Error(1)
}
