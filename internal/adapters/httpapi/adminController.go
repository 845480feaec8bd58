package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"postboard/internal/adapters/httpapi/middleware"
	postPort "postboard/internal/ports/post"
)

// AdminController serves the staff-only moderation listings.
type AdminController struct {
	pc     PostUseCase
	cc     CommentUseCase
	lc     LikeUseCase
	logger *zap.Logger
}

func NewAdminController(pc PostUseCase, cc CommentUseCase, lc LikeUseCase, logger *zap.Logger) *AdminController {
	return &AdminController{pc: pc, cc: cc, lc: lc, logger: logger}
}

// ListPosts accepts ?search= (title, content or author username) and
// ?author=<user id>.
func (ctl *AdminController) ListPosts(c *gin.Context) {
	limit, offset, err := pageParams(c)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	posts, err := ctl.pc.AdminListPosts(c.Request.Context(), middleware.CurrentIdentity(c), postPort.ListOptions{
		Search:   c.Query("search"),
		AuthorID: c.Query("author"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (ctl *AdminController) ListComments(c *gin.Context) {
	limit, offset, err := pageParams(c)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	comments, err := ctl.cc.AdminListComments(c.Request.Context(), middleware.CurrentIdentity(c), c.Query("search"), limit, offset)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (ctl *AdminController) ListLikes(c *gin.Context) {
	limit, offset, err := pageParams(c)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	likes, err := ctl.lc.AdminListLikes(c.Request.Context(), middleware.CurrentIdentity(c), limit, offset)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, likes)
}
