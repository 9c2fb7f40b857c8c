package handlers

import (
	"errors"
	"net/http"

	"tasklist/internal/dto"
	"tasklist/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errNameRequired = errors.New("query parameter 'name' is required")

type TaskHandler struct {
	svc *service.TaskService
	log *zap.Logger
}

func NewTaskHandler(svc *service.TaskService, log *zap.Logger) *TaskHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskHandler{svc: svc, log: log}
}

// Create godoc
// @Summary      Create a task for a user
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      200   {object}  dto.StatusResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /create_task/ [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unprocessable(c, err)
		return
	}
	err := h.svc.CreateTask(c.Request.Context(), *req.Task, *req.Deadline, *req.User)
	if errors.Is(err, service.ErrUserNotFound) {
		status(c, StatusUserNotExists)
		return
	}
	if err != nil {
		internalError(c, h.log, detailTasksFileAbsent, err)
		return
	}
	status(c, StatusTaskCreated)
}

// List godoc
// @Summary      List a user's tasks
// @Tags         tasks
// @Produce      json
// @Param        name  query     string  true  "Username"
// @Success      200   {object}  dto.TasksResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /get_tasks/ [get]
func (h *TaskHandler) List(c *gin.Context) {
	name, ok := c.GetQuery("name")
	if !ok {
		unprocessable(c, errNameRequired)
		return
	}
	list, err := h.svc.GetTasks(c.Request.Context(), name)
	if errors.Is(err, service.ErrUserNotFound) {
		status(c, StatusUserNotFound)
		return
	}
	if err != nil {
		internalError(c, h.log, detailUsersFileAbsent, err)
		return
	}
	if list == nil {
		list = []string{}
	}
	c.JSON(http.StatusOK, dto.TasksResponse{Tasks: list})
}
