package userapp

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"postboard/internal/core/apperror"
	"postboard/internal/core/policy"
	userEntity "postboard/internal/core/user"
	userPort "postboard/internal/ports/user"
)

type memoryTokens struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (m *memoryTokens) Revoke(_ context.Context, id string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[id] = ttl
	return nil
}

func (m *memoryTokens) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[id]
	return ok, nil
}

func newService() (*UserService, *userPort.MockUserRepository, *memoryTokens) {
	repo := new(userPort.MockUserRepository)
	tokens := &memoryTokens{revoked: map[string]time.Duration{}}
	return NewUserService(repo, tokens, []byte("test-secret"), time.Hour, zap.NewNop()), repo, tokens
}

func hashed(t *testing.T, password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRegisterUser(t *testing.T) {
	svc, repo, _ := newService()

	repo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *userEntity.User) bool {
		return u.Username == "alice" && !u.IsStaff &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password123")) == nil
	})).Return(&userEntity.User{ID: uuid.Must(uuid.NewV4()), Username: "alice"}, nil)

	dto, err := svc.RegisterUser(context.Background(), userPort.RegisterInput{Username: " alice ", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", dto.Username)
	assert.False(t, dto.IsStaff)
	repo.AssertExpectations(t)
}

func TestRegisterUser_UsernameTaken(t *testing.T) {
	svc, repo, _ := newService()

	repo.On("FindByUsername", mock.Anything, "alice").Return(&userEntity.User{Username: "alice"}, nil)

	_, err := svc.RegisterUser(context.Background(), userPort.RegisterInput{Username: "alice", Password: "password123"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterUser_Validation(t *testing.T) {
	svc, repo, _ := newService()
	longBio := strings.Repeat("b", userEntity.MaxBioLength+1)

	cases := []userPort.RegisterInput{
		{Username: "", Password: "password123"},
		{Username: strings.Repeat("u", maxUsernameLength+1), Password: "password123"},
		{Username: "alice", Password: "short"},
		{Username: "alice", Password: "password123", Bio: &longBio},
	}
	for _, in := range cases {
		_, err := svc.RegisterUser(context.Background(), in)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	}
	repo.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
}

func TestRegisterUser_DuplicateKeyOnCreate(t *testing.T) {
	svc, repo, _ := newService()

	repo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil, gorm.ErrDuplicatedKey)

	_, err := svc.RegisterUser(context.Background(), userPort.RegisterInput{Username: "alice", Password: "password123"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.EqualError(t, err, "username already taken")
}

func TestRegisterUser_BioCountsCharacters(t *testing.T) {
	svc, repo, _ := newService()
	atLimit := strings.Repeat("é", userEntity.MaxBioLength)
	overLimit := atLimit + "é"

	repo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.Anything).
		Return(&userEntity.User{ID: uuid.Must(uuid.NewV4()), Username: "alice", Bio: &atLimit}, nil)

	_, err := svc.RegisterUser(context.Background(), userPort.RegisterInput{Username: "alice", Password: "password123", Bio: &atLimit})
	require.NoError(t, err)

	_, err = svc.RegisterUser(context.Background(), userPort.RegisterInput{Username: "alice", Password: "password123", Bio: &overLimit})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestLoginAuthenticateLogout(t *testing.T) {
	svc, repo, tokens := newService()
	u := &userEntity.User{ID: uuid.Must(uuid.NewV4()), Username: "alice", Password: hashed(t, "password123"), IsStaff: true}

	repo.On("FindByUsername", mock.Anything, "alice").Return(u, nil)
	repo.On("SetOnline", mock.Anything, u.ID.String(), true).Return(nil)
	repo.On("FindByID", mock.Anything, u.ID.String()).Return(u, nil)
	repo.On("SetOnline", mock.Anything, u.ID.String(), false).Return(nil)

	res, err := svc.LoginUser(context.Background(), "alice", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.True(t, res.User.IsOnline)
	assert.Greater(t, res.ExpiresAt, time.Now().Unix())

	identity, err := svc.Authenticate(context.Background(), res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, identity.UserID)
	assert.True(t, identity.IsStaff)

	require.NoError(t, svc.LogoutUser(context.Background(), identity, res.Token))
	require.Len(t, tokens.revoked, 1)
	for _, ttl := range tokens.revoked {
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Hour)
	}

	_, err = svc.Authenticate(context.Background(), res.Token)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)

	repo.AssertExpectations(t)
}

func TestLoginUser_WrongPassword(t *testing.T) {
	svc, repo, _ := newService()
	u := &userEntity.User{ID: uuid.Must(uuid.NewV4()), Username: "alice", Password: hashed(t, "password123")}
	repo.On("FindByUsername", mock.Anything, "alice").Return(u, nil)
	repo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.LoginUser(context.Background(), "alice", "wrong-password")
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)

	_, err = svc.LoginUser(context.Background(), "ghost", "password123")
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)

	repo.AssertNotCalled(t, "SetOnline", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthenticate_ForeignToken(t *testing.T) {
	svc, repo, _ := newService()
	other := NewUserService(repo, nil, []byte("another-secret"), time.Hour, zap.NewNop())

	token, err := other.generateJWT(&userEntity.User{ID: uuid.Must(uuid.NewV4())}, time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)

	_, err = svc.Authenticate(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	svc, _, _ := newService()

	token, err := svc.generateJWT(&userEntity.User{ID: uuid.Must(uuid.NewV4())}, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
}

func TestAuthenticate_StaffFlagReadFromStore(t *testing.T) {
	svc, repo, _ := newService()
	u := &userEntity.User{ID: uuid.Must(uuid.NewV4()), Username: "alice"}
	token, err := svc.generateJWT(u, time.Now().Add(time.Hour))
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, u.ID.String()).Return(&userEntity.User{ID: u.ID, IsStaff: true}, nil)

	identity, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, identity.IsStaff)
}

func TestUpdateProfile(t *testing.T) {
	svc, repo, _ := newService()
	identity := policy.Identity{UserID: uuid.Must(uuid.NewV4())}
	bio := "hello"
	empty := ""

	repo.On("Update", mock.Anything, identity.UserID.String(), mock.MatchedBy(func(fields map[string]any) bool {
		b, ok := fields["bio"].(*string)
		a, ok2 := fields["avatar"].(*string)
		return ok && ok2 && b != nil && *b == "hello" && a == nil
	})).Return(nil)
	repo.On("FindByID", mock.Anything, identity.UserID.String()).Return(&userEntity.User{ID: identity.UserID, Bio: &bio}, nil)

	dto, err := svc.UpdateProfile(context.Background(), identity, userPort.ProfileInput{Bio: &bio, Avatar: &empty})
	require.NoError(t, err)
	require.NotNil(t, dto.Bio)
	assert.Equal(t, "hello", *dto.Bio)
	repo.AssertExpectations(t)
}

func TestUpdateProfile_BioTooLong(t *testing.T) {
	svc, repo, _ := newService()
	long := strings.Repeat("b", userEntity.MaxBioLength+1)

	_, err := svc.UpdateProfile(context.Background(), policy.Identity{UserID: uuid.Must(uuid.NewV4())}, userPort.ProfileInput{Bio: &long})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfile_MultibyteBioAtLimit(t *testing.T) {
	svc, repo, _ := newService()
	identity := policy.Identity{UserID: uuid.Must(uuid.NewV4())}
	bio := strings.Repeat("é", userEntity.MaxBioLength)

	repo.On("Update", mock.Anything, identity.UserID.String(), mock.MatchedBy(func(fields map[string]any) bool {
		b, ok := fields["bio"].(*string)
		return ok && b != nil && *b == bio
	})).Return(nil)
	repo.On("FindByID", mock.Anything, identity.UserID.String()).Return(&userEntity.User{ID: identity.UserID, Bio: &bio}, nil)

	_, err := svc.UpdateProfile(context.Background(), identity, userPort.ProfileInput{Bio: &bio})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestEnsureAdmin_PromotesExistingUser(t *testing.T) {
	svc, repo, _ := newService()
	u := &userEntity.User{ID: uuid.Must(uuid.NewV4()), Username: "root"}

	repo.On("FindByUsername", mock.Anything, "root").Return(u, nil)
	repo.On("Update", mock.Anything, u.ID.String(), map[string]any{"is_staff": true}).Return(nil)

	require.NoError(t, svc.EnsureAdmin(context.Background(), "root", "password123"))
	repo.AssertExpectations(t)
}

func TestListUsers_RequiresStaff(t *testing.T) {
	svc, repo, _ := newService()

	_, err := svc.ListUsers(context.Background(), policy.Identity{UserID: uuid.Must(uuid.NewV4())})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	repo.AssertNotCalled(t, "List", mock.Anything)
}
