package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"postboard/internal/adapters/httpapi/middleware"
	userPort "postboard/internal/ports/user"
)

type UserController struct {
	uc     UserUseCase
	logger *zap.Logger
}

func NewUserController(uc UserUseCase, logger *zap.Logger) *UserController {
	return &UserController{uc: uc, logger: logger}
}

func (ctl *UserController) LoginUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, ctl.logger, bindingError(err))
		return
	}
	res, err := ctl.uc.LoginUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *UserController) RegisterUser(c *gin.Context) {
	var req struct {
		Username string  `json:"username" binding:"required,max=150"`
		Email    string  `json:"email" binding:"omitempty,email"`
		Password string  `json:"password" binding:"required,min=8"`
		Bio      *string `json:"bio"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, ctl.logger, bindingError(err))
		return
	}
	u, err := ctl.uc.RegisterUser(c.Request.Context(), userPort.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Bio:      req.Bio,
	})
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// LogoutUser revokes the token the request was made with.
func (ctl *UserController) LogoutUser(c *gin.Context) {
	if err := ctl.uc.LogoutUser(c.Request.Context(), middleware.CurrentIdentity(c), middleware.CurrentToken(c)); err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (ctl *UserController) GetProfile(c *gin.Context) {
	u, err := ctl.uc.GetProfile(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (ctl *UserController) UpdateProfile(c *gin.Context) {
	var req struct {
		Bio    *string `json:"bio"`
		Avatar *string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, ctl.logger, bindingError(err))
		return
	}
	u, err := ctl.uc.UpdateProfile(c.Request.Context(), middleware.CurrentIdentity(c), userPort.ProfileInput{
		Bio:    req.Bio,
		Avatar: req.Avatar,
	})
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// ListUsers is staff only.
func (ctl *UserController) ListUsers(c *gin.Context) {
	users, err := ctl.uc.ListUsers(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
