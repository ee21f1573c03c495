package negotiation

import (
	"errors"
	"net/http"

	"procurement/internal/apperr"
	"procurement/models"
)

const (
	msgAccessDenied       = "Access Denied!!!"
	msgNegotiationFailure = "Sorry, Something went wrong!!!"
	msgReadFailure        = "Sorry, something went wrong!!!"
	msgCreateFailure      = "Something went wrong"
	msgListFailure        = "Cannot get enquiries"
)

// accessDenied keeps the 404 status clients already depend on for a caller
// whose role cannot act on negotiations.
func invalidMoney(field string) *apperr.Error {
	return apperr.Invalid(field+" must have at most 2 decimals and stay below 1000000000000", nil)
}

func accessDenied() *apperr.Error {
	return apperr.Forbidden(msgAccessDenied, nil).WithStatus(http.StatusNotFound)
}

// negotiationFailure classifies an error escaping a negotiation update.
// Business errors pass through untouched; storage failures stay internal in
// kind but answer with the historical 403 status and message.
func negotiationFailure(err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, models.ErrNotFound) {
		return apperr.NotFound("Negotiation not found", err)
	}
	if errors.Is(err, models.ErrDuplicate) {
		return apperr.Conflict("Negotiation already accepted", err)
	}
	return apperr.Internal(msgNegotiationFailure, err).WithStatus(http.StatusForbidden)
}

func readFailure(err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperr.Internal(msgReadFailure, err).WithStatus(http.StatusForbidden)
}
