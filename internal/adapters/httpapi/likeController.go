package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"postboard/internal/adapters/httpapi/middleware"
)

type LikeController struct {
	lc     LikeUseCase
	logger *zap.Logger
}

func NewLikeController(lc LikeUseCase, logger *zap.Logger) *LikeController {
	return &LikeController{lc: lc, logger: logger}
}

func (ctl *LikeController) ToggleLike(c *gin.Context) {
	res, err := ctl.lc.ToggleLike(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
