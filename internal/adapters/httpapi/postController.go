package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"postboard/internal/adapters/httpapi/middleware"
	postPort "postboard/internal/ports/post"
)

type PostController struct {
	pc     PostUseCase
	logger *zap.Logger
}

func NewPostController(pc PostUseCase, logger *zap.Logger) *PostController {
	return &PostController{pc: pc, logger: logger}
}

// postRequest binds JSON or form bodies. Image is a stored reference; an
// uploaded file part named image is not read.
type postRequest struct {
	Title   *string `json:"title" form:"title"`
	Content *string `json:"content" form:"content"`
	Image   *string `json:"image" form:"-"`
}

func bindPostRequest(c *gin.Context) (postRequest, error) {
	var req postRequest
	if err := c.ShouldBind(&req); err != nil {
		return req, err
	}
	if c.ContentType() != binding.MIMEJSON {
		if image, ok := c.GetPostForm("image"); ok {
			req.Image = &image
		}
	}
	return req, nil
}

func (r postRequest) input() postPort.PostInput {
	return postPort.PostInput{Title: r.Title, Content: r.Content, Image: r.Image}
}

func (ctl *PostController) ListPosts(c *gin.Context) {
	limit, offset, err := pageParams(c)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	posts, err := ctl.pc.ListPosts(c.Request.Context(), middleware.CurrentIdentity(c), postPort.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (ctl *PostController) GetPost(c *gin.Context) {
	post, err := ctl.pc.GetPost(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (ctl *PostController) CreatePost(c *gin.Context) {
	req, err := bindPostRequest(c)
	if err != nil {
		respondError(c, ctl.logger, bindingError(err))
		return
	}
	post, err := ctl.pc.CreatePost(c.Request.Context(), middleware.CurrentIdentity(c), req.input())
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// UpdatePost handles PUT: title and content are both required.
func (ctl *PostController) UpdatePost(c *gin.Context) {
	ctl.update(c, false)
}

// PatchPost handles PATCH: only the fields sent are changed.
func (ctl *PostController) PatchPost(c *gin.Context) {
	ctl.update(c, true)
}

func (ctl *PostController) update(c *gin.Context, partial bool) {
	req, err := bindPostRequest(c)
	if err != nil {
		respondError(c, ctl.logger, bindingError(err))
		return
	}
	post, err := ctl.pc.UpdatePost(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"), req.input(), partial)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (ctl *PostController) DeletePost(c *gin.Context) {
	if err := ctl.pc.DeletePost(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id")); err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
