package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorCode identifies error classes for programmatic handling.
type ErrorCode string

const (
	ErrCodeBadRequest  ErrorCode = "BAD_REQUEST"
	ErrCodeValidation  ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound    ErrorCode = "NOT_FOUND"
	ErrCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// ErrorResponse is the standard error body for every endpoint.
type ErrorResponse struct {
	Error struct {
		Code    ErrorCode `json:"code"`
		Message string    `json:"message"`
	} `json:"error"`
}

// DataResponse wraps a single object response.
type DataResponse[T any] struct {
	Data T `json:"data"`
}

// ListResponse wraps collection responses.
type ListResponse[T any] struct {
	Data []T `json:"data"`
}

func respondData[T any](c *gin.Context, data T) {
	c.JSON(http.StatusOK, DataResponse[T]{Data: data})
}

func respondList[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{Data: data})
}

func respondError(c *gin.Context, status int, code ErrorCode, message string) {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	c.JSON(status, resp)
}
