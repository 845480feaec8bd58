package userapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"postboard/internal/core/apperror"
	"postboard/internal/core/policy"
	userEntity "postboard/internal/core/user"
	sessionPort "postboard/internal/ports/session"
	userPort "postboard/internal/ports/user"
)

const (
	tokenIssuer       = "postboard"
	maxUsernameLength = 150
	minPasswordLength = 8
)

// UserService manages accounts and access tokens.
type UserService struct {
	UserRepository userPort.UserRepository
	Tokens         sessionPort.TokenStore
	Logger         *zap.Logger
	jwtKey         []byte
	tokenTTL       time.Duration
}

func NewUserService(repo userPort.UserRepository, tokens sessionPort.TokenStore, jwtKey []byte, tokenTTL time.Duration, logger *zap.Logger) *UserService {
	if tokens == nil {
		tokens = sessionPort.NopTokenStore{}
	}
	return &UserService{
		UserRepository: repo,
		Tokens:         tokens,
		Logger:         logger,
		jwtKey:         jwtKey,
		tokenTTL:       tokenTTL,
	}
}

// RegisterUser creates a new non-staff account.
func (s *UserService) RegisterUser(ctx context.Context, in userPort.RegisterInput) (*userPort.UserDTO, error) {
	u, err := s.createUser(ctx, in, false)
	if err != nil {
		return nil, err
	}
	return userPort.NewUserDTO(u), nil
}

func (s *UserService) createUser(ctx context.Context, in userPort.RegisterInput, staff bool) (*userEntity.User, error) {
	username := strings.TrimSpace(in.Username)
	switch {
	case username == "":
		return nil, apperror.Validation("username may not be blank")
	case utf8.RuneCountInString(username) > maxUsernameLength:
		return nil, apperror.Validation(fmt.Sprintf("username must be at most %d characters", maxUsernameLength))
	case len(in.Password) < minPasswordLength:
		return nil, apperror.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if in.Bio != nil && utf8.RuneCountInString(*in.Bio) > userEntity.MaxBioLength {
		return nil, apperror.Validation(fmt.Sprintf("bio must be at most %d characters", userEntity.MaxBioLength))
	}

	existing, err := s.UserRepository.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, apperror.Conflict("username already taken")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// a concurrent registration can still win the unique index
	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		ID:       uuid.Must(uuid.NewV4()),
		Username: username,
		Email:    strings.TrimSpace(in.Email),
		Password: string(hashedPassword),
		Bio:      in.Bio,
		IsStaff:  staff,
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperror.Conflict("username already taken")
	}
	if err != nil {
		return nil, err
	}
	s.Logger.Info("User registered", zap.String("userID", u.ID.String()), zap.String("username", u.Username), zap.Bool("staff", staff))
	return u, nil
}

// EnsureAdmin creates a staff account named username unless one exists.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	existing, err := s.UserRepository.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		if !existing.IsStaff {
			return s.UserRepository.Update(ctx, existing.ID.String(), map[string]any{"is_staff": true})
		}
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	_, err = s.createUser(ctx, userPort.RegisterInput{Username: username, Password: password}, true)
	return err
}

// LoginUser checks the password, marks the user online and issues a JWT.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error) {
	u, err := s.UserRepository.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.Logger.Error("Error finding user", zap.Error(err))
		}
		return nil, apperror.Unauthenticated("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, apperror.Unauthenticated("invalid credentials")
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	token, err := s.generateJWT(u, expiresAt)
	if err != nil {
		s.Logger.Error("Error generating JWT", zap.Error(err))
		return nil, errors.New("could not generate token")
	}

	if err := s.UserRepository.SetOnline(ctx, u.ID.String(), true); err != nil {
		return nil, err
	}
	u.IsOnline = true

	return &userPort.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		User:      userPort.NewUserDTO(u),
	}, nil
}

func (s *UserService) generateJWT(u *userEntity.User, expiresAt time.Time) (string, error) {
	claims := &jwt.StandardClaims{
		Id:        uuid.Must(uuid.NewV4()).String(),
		Subject:   u.ID.String(),
		Issuer:    tokenIssuer,
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtKey)
}

func (s *UserService) parseJWT(tokenString string) (*jwt.StandardClaims, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.Unauthenticated("invalid token")
	}
	return claims, nil
}

// Authenticate resolves a bearer token to the identity it belongs to. The
// staff flag is read from the store, not from the token.
func (s *UserService) Authenticate(ctx context.Context, tokenString string) (policy.Identity, error) {
	claims, err := s.parseJWT(tokenString)
	if err != nil {
		return policy.Anonymous, err
	}

	revoked, err := s.Tokens.IsRevoked(ctx, claims.Id)
	if err != nil {
		return policy.Anonymous, err
	}
	if revoked {
		return policy.Anonymous, apperror.Unauthenticated("token has been revoked")
	}

	u, err := s.UserRepository.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return policy.Anonymous, apperror.Unauthenticated("user not found")
		}
		return policy.Anonymous, err
	}
	return policy.Identity{UserID: u.ID, IsStaff: u.IsStaff}, nil
}

// LogoutUser revokes tokenString for the rest of its lifetime and marks the
// user offline.
func (s *UserService) LogoutUser(ctx context.Context, identity policy.Identity, tokenString string) error {
	if err := policy.RequireAuthenticated(identity); err != nil {
		return err
	}
	claims, err := s.parseJWT(tokenString)
	if err != nil {
		return err
	}
	if ttl := time.Until(time.Unix(claims.ExpiresAt, 0)); ttl > 0 {
		if err := s.Tokens.Revoke(ctx, claims.Id, ttl); err != nil {
			return err
		}
	}
	return s.UserRepository.SetOnline(ctx, identity.UserID.String(), false)
}

func (s *UserService) GetProfile(ctx context.Context, identity policy.Identity) (*userPort.UserDTO, error) {
	if err := policy.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	u, err := s.UserRepository.FindByID(ctx, identity.UserID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, err
	}
	return userPort.NewUserDTO(u), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, identity policy.Identity, in userPort.ProfileInput) (*userPort.UserDTO, error) {
	if err := policy.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if in.Bio != nil {
		if utf8.RuneCountInString(*in.Bio) > userEntity.MaxBioLength {
			return nil, apperror.Validation(fmt.Sprintf("bio must be at most %d characters", userEntity.MaxBioLength))
		}
		fields["bio"] = nullable(*in.Bio)
	}
	if in.Avatar != nil {
		fields["avatar"] = nullable(*in.Avatar)
	}
	if len(fields) > 0 {
		if err := s.UserRepository.Update(ctx, identity.UserID.String(), fields); err != nil {
			return nil, err
		}
	}
	return s.GetProfile(ctx, identity)
}

// ListUsers is the staff directory, newest accounts first.
func (s *UserService) ListUsers(ctx context.Context, identity policy.Identity) ([]*userPort.UserDTO, error) {
	if err := policy.RequireStaff(identity); err != nil {
		return nil, err
	}
	users, err := s.UserRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]*userPort.UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, userPort.NewUserDTO(u))
	}
	return dtos, nil
}

func nullable(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}
