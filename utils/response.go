package utils

import (
	"net/http"

	"cafehere/apperr"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Meta struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Envelope wraps every JSON response. Data is null on errors.
type Envelope struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Meta: Meta{Code: http.StatusOK, Message: "ok"}, Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Meta: Meta{Code: http.StatusCreated, Message: "ok"}, Data: data})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Fail writes an error envelope with the given status and aborts the chain.
func Fail(c *gin.Context, status int, message string, fields map[string][]string) {
	c.AbortWithStatusJSON(status, Envelope{Meta: Meta{Code: status, Message: message, Errors: fields}})
}

// Error renders err through apperr. Internal causes are logged here and never
// reach the client.
func Error(c *gin.Context, err error) {
	e := apperr.As(err)
	status := e.Status()
	if status >= http.StatusInternalServerError {
		log.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Err(err).
			Msg("request failed")
	}
	Fail(c, status, e.Detail, e.Fields)
}

func NotFoundHandler(c *gin.Context) {
	Fail(c, http.StatusNotFound, "Not Found (404)", nil)
}

func MethodNotAllowedHandler(c *gin.Context) {
	Fail(c, http.StatusMethodNotAllowed, "Method Not Allowed (405)", nil)
}
