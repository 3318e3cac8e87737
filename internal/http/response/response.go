package response

import (
	"net/http"

	"learnquest/internal/apperr"
	"learnquest/internal/logger"
	"learnquest/internal/service"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Kind    apperr.Kind `json:"kind"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindResource:
		return http.StatusUnprocessableEntity
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as an envelope. Foreign and internal errors are logged and reported generically.
func Error(c *gin.Context, err error) {
	e, ok := apperr.As(err)
	if !ok || e.Kind == apperr.KindInternal {
		logger.WithContext(c.Request.Context()).Errorw("request failed",
			"error", err, "method", c.Request.Method, "path", c.FullPath())
		e = apperr.Internal(err)
	}
	c.AbortWithStatusJSON(StatusFor(e.Kind), ErrorEnvelope{
		Error: APIError{Kind: e.Kind, Code: e.Code, Message: e.Message},
	})
}

// Unauthorized is the single answer for every failed authentication.
func Unauthorized(c *gin.Context) {
	Error(c, service.ErrUnauthenticated)
}

// BadRequest reports an undecodable request body.
func BadRequest(c *gin.Context, message string) {
	Error(c, apperr.New(apperr.KindValidation, "bad_request", message))
}

func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func Created(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// Message is the plain {"message", "success"} body used by mutating endpoints.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message, "success": true})
}
