package handlers

import (
	"errors"
	"net/http"

	"tasklist/internal/dto"
	"tasklist/internal/repo"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Status strings returned with 200 for expected alternate outcomes.
const (
	StatusUserCreated     = "User Created"
	StatusUserExists      = "User already exists"
	StatusTaskCreated     = "Task Created"
	StatusUserNotExists   = "User does not exist"
	StatusUserNotFound    = "User not found"
	detailUsersFileAbsent = "Users file not found."
	detailTasksFileAbsent = "Tasks file not found."
	detailInternal        = "internal server error"
)

func status(c *gin.Context, s string) {
	c.JSON(http.StatusOK, dto.StatusResponse{Status: s})
}

func unprocessable(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Detail: err.Error()})
}

// internalError answers 500. missingDetail is used when a storage table is gone.
func internalError(c *gin.Context, log *zap.Logger, missingDetail string, err error) {
	log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	detail := detailInternal
	if errors.Is(err, repo.ErrTableMissing) {
		detail = missingDetail
	}
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Detail: detail})
}
