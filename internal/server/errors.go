package server

import (
	"errors"
	"net/http"
	"strings"

	adhocdomain "github.com/billforge/billforge/internal/adhoccharge/domain"
	customerdomain "github.com/billforge/billforge/internal/customer/domain"
	disputedomain "github.com/billforge/billforge/internal/dispute/domain"
	feedomain "github.com/billforge/billforge/internal/fee/domain"
	"github.com/billforge/billforge/internal/feesync"
	invoicingdomain "github.com/billforge/billforge/internal/invoicing/domain"
	usagedomain "github.com/billforge/billforge/internal/usage/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

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
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrTooManyRequests    = errors.New("too_many_requests")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

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

	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, customerdomain.ErrReferenceExists),
		errors.Is(err, usagedomain.ErrDuplicateRecord),
		errors.Is(err, adhocdomain.ErrAlreadyDecided),
		errors.Is(err, disputedomain.ErrAlreadyResolved),
		errors.Is(err, feesync.ErrSyncInProgress):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "too_many_requests",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable),
		errors.Is(err, invoicingdomain.ErrUsageUnavailable),
		errors.Is(err, feesync.ErrSyncDisabled):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
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
	case isCustomerValidationError(err),
		isFeeValidationError(err),
		isUsageValidationError(err),
		isAdhocValidationError(err),
		isDisputeValidationError(err),
		errors.Is(err, invoicingdomain.ErrInvalidInvoiceDate):
		return true
	default:
		return false
	}
}

func isCustomerValidationError(err error) bool {
	switch {
	case errors.Is(err, customerdomain.ErrInvalidReference),
		errors.Is(err, customerdomain.ErrInvalidName),
		errors.Is(err, customerdomain.ErrInvalidID),
		errors.Is(err, customerdomain.ErrUnknownClient):
		return true
	default:
		return false
	}
}

func isFeeValidationError(err error) bool {
	switch {
	case errors.Is(err, feedomain.ErrInvalidClient),
		errors.Is(err, feedomain.ErrInvalidProduct),
		errors.Is(err, feedomain.ErrInvalidType),
		errors.Is(err, feedomain.ErrInvalidCategory),
		errors.Is(err, feedomain.ErrInvalidStartDate),
		errors.Is(err, feedomain.ErrInvalidEndDate),
		errors.Is(err, feedomain.ErrInvalidFrequency),
		errors.Is(err, feedomain.ErrInvalidStructure),
		errors.Is(err, feedomain.ErrInvalidCurrency),
		errors.Is(err, feedomain.ErrMissingTiers),
		errors.Is(err, feedomain.ErrInvalidTierBounds),
		errors.Is(err, feedomain.ErrOverlappingTiers),
		errors.Is(err, feedomain.ErrInvalidTierAmount),
		errors.Is(err, feedomain.ErrMissingAmount),
		errors.Is(err, feedomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isUsageValidationError(err error) bool {
	switch {
	case errors.Is(err, usagedomain.ErrInvalidClient),
		errors.Is(err, usagedomain.ErrInvalidMeterCode),
		errors.Is(err, usagedomain.ErrInvalidQuantity),
		errors.Is(err, usagedomain.ErrInvalidAmount),
		errors.Is(err, usagedomain.ErrInvalidRecordedAt):
		return true
	default:
		return false
	}
}

func isAdhocValidationError(err error) bool {
	switch {
	case errors.Is(err, adhocdomain.ErrInvalidClient),
		errors.Is(err, adhocdomain.ErrInvalidCategory),
		errors.Is(err, adhocdomain.ErrInvalidName),
		errors.Is(err, adhocdomain.ErrInvalidAmount),
		errors.Is(err, adhocdomain.ErrInvalidChargeDate),
		errors.Is(err, adhocdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isDisputeValidationError(err error) bool {
	switch {
	case errors.Is(err, disputedomain.ErrInvalidClient),
		errors.Is(err, disputedomain.ErrInvalidAmount),
		errors.Is(err, disputedomain.ErrInvalidType),
		errors.Is(err, disputedomain.ErrInvalidPriority),
		errors.Is(err, disputedomain.ErrInvalidResolution),
		errors.Is(err, disputedomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, feedomain.ErrNotFound),
		errors.Is(err, adhocdomain.ErrNotFound),
		errors.Is(err, disputedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
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
