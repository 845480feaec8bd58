package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"postboard/internal/adapters/httpapi/middleware"
	"postboard/internal/core/policy"
	commentPort "postboard/internal/ports/comment"
	likePort "postboard/internal/ports/like"
	postPort "postboard/internal/ports/post"
	userPort "postboard/internal/ports/user"
)

// UserUseCase is the inbound port the auth routes depend on.
type UserUseCase interface {
	RegisterUser(ctx context.Context, in userPort.RegisterInput) (*userPort.UserDTO, error)
	LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error)
	LogoutUser(ctx context.Context, identity policy.Identity, token string) error
	Authenticate(ctx context.Context, token string) (policy.Identity, error)
	GetProfile(ctx context.Context, identity policy.Identity) (*userPort.UserDTO, error)
	UpdateProfile(ctx context.Context, identity policy.Identity, in userPort.ProfileInput) (*userPort.UserDTO, error)
	ListUsers(ctx context.Context, identity policy.Identity) ([]*userPort.UserDTO, error)
}

type PostUseCase interface {
	ListPosts(ctx context.Context, viewer policy.Identity, opts postPort.ListOptions) ([]*postPort.PostDTO, error)
	GetPost(ctx context.Context, viewer policy.Identity, id string) (*postPort.PostDTO, error)
	CreatePost(ctx context.Context, viewer policy.Identity, in postPort.PostInput) (*postPort.PostDTO, error)
	UpdatePost(ctx context.Context, viewer policy.Identity, id string, in postPort.PostInput, partial bool) (*postPort.PostDTO, error)
	DeletePost(ctx context.Context, viewer policy.Identity, id string) error
	AdminListPosts(ctx context.Context, viewer policy.Identity, opts postPort.ListOptions) ([]*postPort.AdminPostDTO, error)
}

type CommentUseCase interface {
	CreateComment(ctx context.Context, viewer policy.Identity, postID, content string) (*commentPort.CommentDTO, error)
	ListComments(ctx context.Context, postID string) ([]*commentPort.CommentDTO, error)
	AdminListComments(ctx context.Context, viewer policy.Identity, search string, limit, offset int) ([]*commentPort.CommentDTO, error)
}

type LikeUseCase interface {
	ToggleLike(ctx context.Context, viewer policy.Identity, postID string) (*likePort.ToggleResponse, error)
	AdminListLikes(ctx context.Context, viewer policy.Identity, limit, offset int) ([]*likePort.LikeDTO, error)
}

// SetupRoutes wires the controllers; use cases are injected by the caller.
func SetupRoutes(
	userUC UserUseCase,
	postUC PostUseCase,
	commentUC CommentUseCase,
	likeUC LikeUseCase,
	logger *zap.Logger,
) *gin.Engine {
	r := gin.Default()
	r.Use(compress(gzip.Gzip(gzip.DefaultCompression)))

	uc := NewUserController(userUC, logger)
	pc := NewPostController(postUC, logger)
	cc := NewCommentController(commentUC, logger)
	lc := NewLikeController(likeUC, logger)
	ac := NewAdminController(postUC, commentUC, likeUC, logger)

	requireAuth := middleware.JWTAuthMiddleware(userUC)
	optionalAuth := middleware.OptionalJWTAuthMiddleware(userUC)

	auth := r.Group("/auth")
	auth.POST("/register/", uc.RegisterUser)
	auth.POST("/login/", uc.LoginUser)
	auth.POST("/logout/", requireAuth, uc.LogoutUser)
	auth.GET("/profile/", requireAuth, uc.GetProfile)
	auth.PATCH("/profile/", requireAuth, uc.UpdateProfile)
	auth.GET("/users/", requireAuth, uc.ListUsers)

	posts := r.Group("/posts")
	posts.GET("/", optionalAuth, pc.ListPosts)
	posts.POST("/", requireAuth, pc.CreatePost)
	posts.GET("/:id/", optionalAuth, pc.GetPost)
	posts.PUT("/:id/", requireAuth, pc.UpdatePost)
	posts.PATCH("/:id/", requireAuth, pc.PatchPost)
	posts.DELETE("/:id/", requireAuth, pc.DeletePost)
	posts.POST("/:id/like/", requireAuth, lc.ToggleLike)
	posts.GET("/:id/comments/", optionalAuth, cc.ListComments)

	r.POST("/comments/", requireAuth, cc.CreateComment)

	admin := r.Group("/admin", requireAuth)
	admin.GET("/posts/", ac.ListPosts)
	admin.GET("/comments/", ac.ListComments)
	admin.GET("/likes/", ac.ListLikes)

	return r
}

// compress skips DELETE, whose 204 must not carry an encoded empty body.
func compress(gz gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodDelete {
			c.Next()
			return
		}
		gz(c)
	}
}
