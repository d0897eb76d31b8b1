package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	appdomain "github.com/smallbiznis/loanhub/internal/application/domain"
	bankdomain "github.com/smallbiznis/loanhub/internal/bankintegration/domain"
	"github.com/smallbiznis/loanhub/internal/observability/logger"
	offerdomain "github.com/smallbiznis/loanhub/internal/offer/domain"
	seldomain "github.com/smallbiznis/loanhub/internal/selection/domain"
	"go.uber.org/zap"
)

type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *apiError) Error() string { return e.Code }

func invalidRequestError() error {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_request",
		Message: "request body or query could not be parsed",
	}
}

func newValidationError(field, code, message string) error {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    code,
		Message: message,
		Field:   field,
	}
}

// notFoundErrors map to 404.
var notFoundErrors = []error{
	appdomain.ErrNotFound,
	seldomain.ErrNotFound,
	bankdomain.ErrNotFound,
}

// conflictErrors map to 409: the operation is recognized but the
// entity's current state refuses it.
var conflictErrors = []error{
	seldomain.ErrAlreadyApplied,
	appdomain.ErrAlreadyCancelled,
	appdomain.ErrCancelNotAllowed,
	appdomain.ErrInvalidTransition,
	appdomain.ErrConcurrentUpdate,
}

// validationErrors map to 400.
var validationErrors = []error{
	appdomain.ErrInvalidID,
	appdomain.ErrInvalidEmail,
	appdomain.ErrInvalidApplicant,
	appdomain.ErrInvalidOffer,
	appdomain.ErrInvalidStatus,
	appdomain.ErrReasonRequired,
	seldomain.ErrInvalidID,
	seldomain.ErrInvalidInquiry,
	seldomain.ErrInvalidOffer,
	seldomain.ErrPartialFinancials,
	seldomain.ErrInvalidFinancials,
	seldomain.ErrProviderNotFound,
	seldomain.ErrNoOffersReturned,
	offerdomain.ErrInvalidAmount,
	offerdomain.ErrInvalidDuration,
	offerdomain.ErrInvalidFinancials,
	bankdomain.ErrInvalidID,
	bankdomain.ErrInvalidName,
	bankdomain.ErrInvalidBaseURL,
}

// AbortWithError renders the error as a JSON response using the
// domain error taxonomy: unknown entity 404, state refusal 409,
// validation 400, everything else 500.
func AbortWithError(c *gin.Context, err error) {
	var api *apiError
	if errors.As(err, &api) {
		c.AbortWithStatusJSON(api.Status, gin.H{"error": api})
		return
	}

	status := http.StatusInternalServerError
	code := "internal_error"
	switch {
	case matchesAny(err, notFoundErrors):
		status = http.StatusNotFound
		code = err.Error()
	case matchesAny(err, conflictErrors):
		status = http.StatusConflict
		code = err.Error()
	case matchesAny(err, validationErrors):
		status = http.StatusBadRequest
		code = err.Error()
	}

	body := gin.H{"code": code}
	if status != http.StatusInternalServerError {
		body["message"] = err.Error()
	} else {
		body["message"] = "internal error"
		logger.FromContext(c.Request.Context()).Error("unhandled request error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": body})
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
