package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/solarcook/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

var statusByCode = map[string]int{
	codeInvalidRequest:                http.StatusBadRequest,
	apperrors.CodeInvalidInput:        http.StatusBadRequest,
	apperrors.CodeLengthMismatch:      http.StatusBadRequest,
	apperrors.CodeLocationNotFound:    http.StatusBadRequest,
	apperrors.CodeNoIrradianceData:    http.StatusNotFound,
	apperrors.CodeProviderUnavailable: http.StatusBadGateway,
	apperrors.CodeInference:           http.StatusInternalServerError,
}

const (
	codeInvalidRequest = "invalid_request"
	codeInternal       = "internal_error"
)

// fromDomainError maps a domain failure onto the transport taxonomy.
func fromDomainError(err error) *HTTPError {
	code := apperrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		return NewHTTPError(http.StatusInternalServerError, codeInternal, "something went wrong", err)
	}
	var appErr *apperrors.AppError
	errors.As(err, &appErr)
	message := appErr.Message
	if status < http.StatusInternalServerError && appErr.Err != nil {
		message = appErr.Error()
	}
	return NewHTTPError(status, code, message, err)
}

func invalidRequest(err error) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, codeInvalidRequest, errMessage(err), err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return fromDomainError(err)
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
