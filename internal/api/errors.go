package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/gradecalc/internal/api/shared"
	"github.com/phrazzld/gradecalc/internal/domain"
	"github.com/phrazzld/gradecalc/internal/service"
	"github.com/phrazzld/gradecalc/internal/service/auth"
	"github.com/phrazzld/gradecalc/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	if _, ok := domain.AsValidationError(err); ok {
		return http.StatusUnprocessableEntity
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, auth.ErrWrongSession),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, store.ErrSessionNotFound),
		errors.Is(err, domain.ErrRowNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrLastRow),
		errors.Is(err, domain.ErrDuplicateRowID),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	if ve, ok := domain.AsValidationError(err); ok {
		return titleFor(ve.Category)
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrWrongSession),
		errors.Is(err, domain.ErrUnauthorized):
		return "Token does not grant access to this session"

	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, store.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, domain.ErrRowNotFound):
		return "Row not found"

	case errors.Is(err, domain.ErrLastRow):
		return "At least one row is required"

	case errors.Is(err, domain.ErrDuplicateRowID):
		return "Row IDs must be unique"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"

	case errors.Is(err, domain.ErrInvalidState):
		return "Calculator is busy"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// titleFor returns the headline shown for a rejected row list.
func titleFor(category domain.Category) string {
	switch category {
	case domain.CategoryMissingFields:
		return "Invalid input"
	case domain.CategoryOutOfRange:
		return "Value out of range"
	default:
		return "Validation error"
	}
}

// descriptionFor returns the explanation shown under the title.
func descriptionFor(category domain.Category) string {
	switch category {
	case domain.CategoryMissingFields:
		return "Please fill in all fields before calculating."
	case domain.CategoryOutOfRange:
		return "Please make sure every GPA is between 0 and 10."
	default:
		return "Please check your input and try again."
	}
}

// HandleAPIError writes the error response for err. Validation errors get a
// 422 with the rejection details; everything else gets a safe message and the
// status from MapErrorToStatusCode. fallbackMsg replaces the generic message
// for 5xx responses when it is not empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	if ve, ok := domain.AsValidationError(err); ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnprocessableEntity, ve.Message, err,
			shared.WithValidationDetails(shared.ValidationDetails{
				Category:    string(ve.Category),
				Title:       titleFor(ve.Category),
				Description: descriptionFor(ve.Category),
				RowID:       ve.RowID,
				Field:       ve.Field,
			}))
		return
	}

	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status >= http.StatusInternalServerError && fallbackMsg != "" {
		message = fallbackMsg
	}

	var opts []shared.ResponseOption
	if status == http.StatusForbidden || status == http.StatusConflict {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

// SanitizeValidationError turns a request validation failure into a short
// message naming the offending field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", fieldName(fe.Namespace()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// fieldName drops the request struct name from a validator namespace, so
// "ReplaceSubjectsRequest.Subjects[0].ID" becomes "Subjects[0].ID".
func fieldName(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "dive":
		return "invalid entry"
	default:
		return "validation failed"
	}
}
