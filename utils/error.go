package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorKind classifies an AppError and fixes its HTTP status.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindUnauthenticated
	KindConflict
	KindUpstream
)

// HTTPStatus maps the kind to its response status.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AppError is the error type returned by the service layer. Code is a stable,
// machine-readable reason such as "promo_expired".
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func NewValidationError(code, msg string) *AppError {
	if code == "" {
		code = "validation_failed"
	}
	return &AppError{Kind: KindValidation, Code: code, Message: msg}
}

func NewNotFoundError(code, msg string) *AppError {
	if code == "" {
		code = "not_found"
	}
	return &AppError{Kind: KindNotFound, Code: code, Message: msg}
}

func NewForbiddenError(msg string) *AppError {
	return &AppError{Kind: KindForbidden, Code: "forbidden", Message: msg}
}

func NewUnauthenticatedError(msg string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Code: "unauthenticated", Message: msg}
}

func NewConflictError(code, msg string) *AppError {
	if code == "" {
		code = "conflict"
	}
	return &AppError{Kind: KindConflict, Code: code, Message: msg}
}

func NewUpstreamError(msg string, err error) *AppError {
	return &AppError{Kind: KindUpstream, Code: "upstream_error", Message: msg, Err: err}
}

func NewInternalError(msg string, err error) *AppError {
	return &AppError{Kind: KindInternal, Code: "internal_error", Message: msg, Err: err}
}

// KindOf returns the kind of err, or KindInternal when err is not an AppError.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// CodeOf returns the stable code of err, or "internal_error".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "internal_error"
}

// ErrorBody is the error part of a failed response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorResponse defines the structure of error responses.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// ErrorHandler catches panics and returns a structured 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error: ErrorBody{
						Code:    "internal_error",
						Message: "Internal Server Error",
						Details: "An unexpected error occurred. Please try again later.",
					},
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response.
func JSONError(c *gin.Context, status int, code, message, details string) {
	GetLogger().Warn(message, zap.String("code", code), zap.String("details", details))
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message, Details: details}})
}

// RespondError writes err as a JSON error response. Errors that are not an
// AppError are logged and reported as a generic 500.
func RespondError(c *gin.Context, logger *zap.Logger, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		logger.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorBody{Code: "internal_error", Message: "Internal Server Error"},
		})
		return
	}

	status := appErr.Kind.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("code", appErr.Code), zap.Error(err))
	} else {
		logger.Debug("request rejected", zap.String("code", appErr.Code), zap.String("message", appErr.Message))
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{Code: appErr.Code, Message: appErr.Message}})
}

// RespondOK writes a success payload; fields are merged next to "success": true.
func RespondOK(c *gin.Context, status int, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}
