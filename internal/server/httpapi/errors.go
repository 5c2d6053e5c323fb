package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/noteshare/internal/common"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"error_code"`
	Message string `json:"error_message"`
}

type errorClass struct {
	err    error
	status int
	code   string
}

var errorClasses = []errorClass{
	{common.ErrorUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{common.ErrorForbidden, http.StatusForbidden, "FORBIDDEN"},
	{common.ErrorNotFound, http.StatusNotFound, "NOT_FOUND"},
	{common.ErrorValidation, http.StatusBadRequest, "BAD_REQUEST"},
	{common.ErrorAlreadyExists, http.StatusConflict, "CONFLICT"},
	{common.ErrorUnprocessable, http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY"},
}

// statusOf maps an error to its HTTP status and error code.
func statusOf(err error) (int, string) {
	for _, ec := range errorClasses {
		if errors.Is(err, ec.err) {
			return ec.status, ec.code
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

func (s *Server) writeError(c *gin.Context, err error) {
	status, code := statusOf(err)
	msg := common.ClientMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed",
			"path", c.FullPath(), "request_id", c.GetString(requestIDKey), "error", err.Error())
		msg = common.ErrorInternal.Error()
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: msg})
}
