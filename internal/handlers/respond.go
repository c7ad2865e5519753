package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookwise/api/internal/media/sniffer"
	"bookwise/api/internal/repository"
	"bookwise/api/internal/service"
)

func errorJSON(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"error":   code,
		"message": message,
	})
}

func badRequest(c *gin.Context, message string) {
	errorJSON(c, http.StatusBadRequest, "validation_error", message)
}

func unauthorized(c *gin.Context, message string) {
	errorJSON(c, http.StatusUnauthorized, "unauthorized", message)
}

func forbidden(c *gin.Context, message string) {
	errorJSON(c, http.StatusForbidden, "forbidden", message)
}

func notFound(c *gin.Context, message string) {
	errorJSON(c, http.StatusNotFound, "not_found", message)
}

func conflict(c *gin.Context, message string) {
	errorJSON(c, http.StatusConflict, "conflict", message)
}

// serviceError translates domain and storage errors into the response
// taxonomy. Unexpected errors surface as generic 500s without leaking
// internals.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		conflict(c, "value already exists")
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, repository.ErrAuthorNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrPublisherNotFound),
		errors.Is(err, repository.ErrBookNotFound),
		errors.Is(err, repository.ErrCopyNotFound),
		errors.Is(err, repository.ErrLoanNotFound),
		errors.Is(err, repository.ErrRatingNotFound),
		errors.Is(err, repository.ErrReservationNotFound):
		notFound(c, "resource not found")
	case errors.Is(err, repository.ErrReferenceMissing):
		notFound(c, "referenced entity not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		unauthorized(c, "invalid credentials")
	case errors.Is(err, service.ErrSessionInvalid), errors.Is(err, service.ErrTokenRevoked):
		unauthorized(c, "session invalid")
	case errors.Is(err, service.ErrEmailTaken):
		conflict(c, "email already registered")
	case errors.Is(err, service.ErrNotSessionOwner), errors.Is(err, service.ErrNotReservationOwner):
		forbidden(c, "not the owner of this resource")
	case errors.Is(err, service.ErrCopyUnavailable):
		conflict(c, "copy is not available")
	case errors.Is(err, service.ErrCopyHasActiveLoan):
		conflict(c, "copy has an active loan")
	case errors.Is(err, service.ErrLoanNotOpen):
		conflict(c, "loan is not open")
	case errors.Is(err, service.ErrAlreadyReserved):
		conflict(c, "pending reservation already exists")
	case errors.Is(err, service.ErrReservationNotPending):
		conflict(c, "reservation is not pending")
	case errors.Is(err, service.ErrCoverTooLarge):
		badRequest(c, "cover image exceeds size limit")
	case errors.Is(err, service.ErrCoverMissing), errors.Is(err, service.ErrCoverEmpty):
		badRequest(c, "missing or empty cover file")
	case errors.Is(err, service.ErrCoverTypeMismatch):
		badRequest(c, "declared content type does not match file content")
	case errors.Is(err, sniffer.ErrUnsupportedType):
		badRequest(c, "unsupported image type")
	default:
		errorJSON(c, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
