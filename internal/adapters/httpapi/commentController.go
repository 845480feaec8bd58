package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"postboard/internal/adapters/httpapi/middleware"
)

type CommentController struct {
	cc     CommentUseCase
	logger *zap.Logger
}

func NewCommentController(cc CommentUseCase, logger *zap.Logger) *CommentController {
	return &CommentController{cc: cc, logger: logger}
}

func (ctl *CommentController) CreateComment(c *gin.Context) {
	var req struct {
		Post    string `json:"post" form:"post" binding:"required"`
		Content string `json:"content" form:"content" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, ctl.logger, bindingError(err))
		return
	}
	comment, err := ctl.cc.CreateComment(c.Request.Context(), middleware.CurrentIdentity(c), req.Post, req.Content)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListComments is public and returns an empty array for unknown posts.
func (ctl *CommentController) ListComments(c *gin.Context) {
	comments, err := ctl.cc.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}
