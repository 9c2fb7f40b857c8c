package handlers

import (
	"errors"

	"tasklist/internal/dto"
	"tasklist/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler handles user registration.
type UserHandler struct {
	svc *service.UserService
	log *zap.Logger
}

// NewUserHandler returns a new UserHandler.
func NewUserHandler(svc *service.UserService, log *zap.Logger) *UserHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserHandler{svc: svc, log: log}
}

// Create godoc
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateUserRequest  true  "Credentials"
// @Success      200   {object}  dto.StatusResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /create_user/ [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unprocessable(c, err)
		return
	}
	err := h.svc.CreateUser(c.Request.Context(), *req.Username, *req.Password)
	if errors.Is(err, service.ErrUserExists) {
		status(c, StatusUserExists)
		return
	}
	if err != nil {
		internalError(c, h.log, detailUsersFileAbsent, err)
		return
	}
	status(c, StatusUserCreated)
}
