package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	agencydomain "github.com/smallbiznis/gareline/internal/agency/domain"
	alertdomain "github.com/smallbiznis/gareline/internal/alert/domain"
	auditdomain "github.com/smallbiznis/gareline/internal/audit/domain"
	authdomain "github.com/smallbiznis/gareline/internal/auth/domain"
	"github.com/smallbiznis/gareline/internal/authorization"
	connectiondomain "github.com/smallbiznis/gareline/internal/connection/domain"
	garedomain "github.com/smallbiznis/gareline/internal/gare/domain"
	rechargedomain "github.com/smallbiznis/gareline/internal/recharge/domain"
	reportdomain "github.com/smallbiznis/gareline/internal/report/domain"
	zonedomain "github.com/smallbiznis/gareline/internal/zone/domain"
	"gorm.io/gorm"
)

const msgInsufficientPermissions = "Insufficient permissions"

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

// messageError overrides the client-facing message of a mapped error.
type messageError struct {
	err     error
	message string
}

func (e *messageError) Error() string { return e.message }

func (e *messageError) Unwrap() error { return e.err }

func withMessage(err error, message string) error {
	return &messageError{err: err, message: message}
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	if message, ok := conflictMessage(err); ok {
		return http.StatusBadRequest, errorPayload{
			Type:    "conflict",
			Message: message,
		}
	}

	switch {
	case isUnauthorizedError(err):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: overrideMessage(err, unauthorizedMessage(err)),
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden),
		errors.Is(err, authorization.ErrInvalidActor):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: overrideMessage(err, msgInsufficientPermissions),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: overrideMessage(err, notFoundMessage(err)),
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: overrideMessage(err, "Too many requests"),
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: overrideMessage(err, "internal server error"),
		}
	}
}

func overrideMessage(err error, fallback string) string {
	var mErr *messageError
	if errors.As(err, &mErr) && mErr != nil && strings.TrimSpace(mErr.message) != "" {
		return mErr.message
	}
	return fallback
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isAuthValidationError(err),
		isZoneValidationError(err),
		isAgencyValidationError(err),
		isGareValidationError(err),
		isConnectionValidationError(err),
		isRechargeValidationError(err),
		isAlertValidationError(err),
		isReportValidationError(err),
		isAuditValidationError(err):
		return true
	default:
		return false
	}
}

func isAuthValidationError(err error) bool {
	switch {
	case errors.Is(err, authdomain.ErrInvalidEmail),
		errors.Is(err, authdomain.ErrInvalidPassword),
		errors.Is(err, authdomain.ErrInvalidFullName),
		errors.Is(err, authdomain.ErrInvalidRole):
		return true
	default:
		return false
	}
}

func isReportValidationError(err error) bool {
	switch {
	case errors.Is(err, reportdomain.ErrInvalidID),
		errors.Is(err, reportdomain.ErrInvalidScope),
		errors.Is(err, reportdomain.ErrInvalidFormat),
		errors.Is(err, reportdomain.ErrInvalidPhoneNumber):
		return true
	default:
		return false
	}
}

func isAuditValidationError(err error) bool {
	switch {
	case errors.Is(err, auditdomain.ErrInvalidPageToken),
		errors.Is(err, auditdomain.ErrInvalidTimeRange),
		errors.Is(err, auditdomain.ErrInvalidAction):
		return true
	default:
		return false
	}
}

func conflictMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, authdomain.ErrUserExists):
		return "Email already registered", true
	case errors.Is(err, connectiondomain.ErrLineNumberExists):
		return "Ce numéro de ligne existe déjà", true
	case errors.Is(err, connectiondomain.ErrHasActiveRecharges):
		return "Impossible de supprimer une ligne avec des recharges actives", true
	default:
		return "", false
	}
}

func isUnauthorizedError(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrUserDisabled),
		errors.Is(err, authdomain.ErrInvalidToken),
		errors.Is(err, authdomain.ErrUserNotFound):
		return true
	default:
		return false
	}
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, authdomain.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, authdomain.ErrUserDisabled):
		return "User account is disabled"
	case errors.Is(err, authdomain.ErrUserNotFound):
		return "User not found"
	default:
		return "Invalid authentication credentials"
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, zonedomain.ErrNotFound),
		errors.Is(err, agencydomain.ErrNotFound),
		errors.Is(err, garedomain.ErrNotFound),
		errors.Is(err, connectiondomain.ErrNotFound),
		errors.Is(err, rechargedomain.ErrNotFound),
		errors.Is(err, alertdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, zonedomain.ErrNotFound):
		return "Zone not found"
	case errors.Is(err, agencydomain.ErrNotFound):
		return "Agency not found"
	case errors.Is(err, garedomain.ErrNotFound):
		return "Gare not found"
	case errors.Is(err, connectiondomain.ErrNotFound):
		return "Connection not found"
	case errors.Is(err, rechargedomain.ErrNotFound):
		return "Recharge not found"
	case errors.Is(err, alertdomain.ErrNotFound):
		return "Alert not found"
	default:
		return "not found"
	}
}

func validationErrorCode(err error) string {
	var mErr *messageError
	if errors.As(err, &mErr) && mErr != nil {
		err = mErr.err
	}
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog feeds the request logger with the mapped error type and
// a stable code.
func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}
