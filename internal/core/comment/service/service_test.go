package commentapp

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"postboard/internal/core/apperror"
	commentEntity "postboard/internal/core/comment"
	"postboard/internal/core/policy"
	userEntity "postboard/internal/core/user"
	commentPort "postboard/internal/ports/comment"
	postPort "postboard/internal/ports/post"
)

func newService() (*CommentService, *commentPort.MockCommentRepository, *postPort.MockPostRepository) {
	comments := new(commentPort.MockCommentRepository)
	posts := new(postPort.MockPostRepository)
	return NewCommentService(comments, posts, zap.NewNop()), comments, posts
}

func TestCreateComment(t *testing.T) {
	svc, comments, posts := newService()
	viewer := policy.Identity{UserID: uuid.Must(uuid.NewV4())}
	postID := uuid.Must(uuid.NewV4())

	posts.On("Exists", mock.Anything, postID.String()).Return(true, nil)
	comments.On("Create", mock.Anything, mock.MatchedBy(func(c *commentEntity.Comment) bool {
		return c.PostID == postID && c.AuthorID == viewer.UserID && c.Content == "Nice"
	})).Return(&commentEntity.Comment{
		ID:       uuid.Must(uuid.NewV4()),
		PostID:   postID,
		AuthorID: viewer.UserID,
		Author:   userEntity.User{ID: viewer.UserID, Username: "bob"},
		Content:  "Nice",
	}, nil)

	dto, err := svc.CreateComment(context.Background(), viewer, postID.String(), "  Nice ")
	require.NoError(t, err)
	assert.Equal(t, postID.String(), dto.Post)
	assert.Equal(t, "bob", dto.AuthorName)
	assert.Equal(t, "Nice", dto.Content)

	comments.AssertExpectations(t)
	posts.AssertExpectations(t)
}

func TestCreateComment_Unauthenticated(t *testing.T) {
	svc, comments, _ := newService()

	_, err := svc.CreateComment(context.Background(), policy.Anonymous, uuid.Must(uuid.NewV4()).String(), "hi")
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
	comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateComment_BlankContent(t *testing.T) {
	svc, comments, _ := newService()
	viewer := policy.Identity{UserID: uuid.Must(uuid.NewV4())}

	_, err := svc.CreateComment(context.Background(), viewer, uuid.Must(uuid.NewV4()).String(), "   ")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateComment_MissingPostIsValidationError(t *testing.T) {
	svc, comments, posts := newService()
	viewer := policy.Identity{UserID: uuid.Must(uuid.NewV4())}
	postID := uuid.Must(uuid.NewV4()).String()

	posts.On("Exists", mock.Anything, postID).Return(false, nil)

	_, err := svc.CreateComment(context.Background(), viewer, postID, "hi")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.CreateComment(context.Background(), viewer, "garbage", "hi")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListComments_InvalidPostIsEmpty(t *testing.T) {
	svc, comments, _ := newService()

	dtos, err := svc.ListComments(context.Background(), "garbage")
	require.NoError(t, err)
	assert.NotNil(t, dtos)
	assert.Empty(t, dtos)
	comments.AssertNotCalled(t, "ListByPostID", mock.Anything, mock.Anything)
}

func TestListComments(t *testing.T) {
	svc, comments, _ := newService()
	postID := uuid.Must(uuid.NewV4())

	comments.On("ListByPostID", mock.Anything, postID.String()).Return([]*commentEntity.Comment{
		{ID: uuid.Must(uuid.NewV4()), PostID: postID, Content: "first"},
		{ID: uuid.Must(uuid.NewV4()), PostID: postID, Content: "second"},
	}, nil)

	dtos, err := svc.ListComments(context.Background(), postID.String())
	require.NoError(t, err)
	require.Len(t, dtos, 2)
	assert.Equal(t, "first", dtos[0].Content)
	assert.Equal(t, "second", dtos[1].Content)
}

func TestAdminListComments_RequiresStaff(t *testing.T) {
	svc, comments, _ := newService()

	_, err := svc.AdminListComments(context.Background(), policy.Identity{UserID: uuid.Must(uuid.NewV4())}, "", 0, 0)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	comments.On("Search", mock.Anything, "hello", 10, 0).Return([]*commentEntity.Comment{}, nil)
	dtos, err := svc.AdminListComments(context.Background(), policy.Identity{UserID: uuid.Must(uuid.NewV4()), IsStaff: true}, " hello ", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, dtos)
	comments.AssertExpectations(t)
}
