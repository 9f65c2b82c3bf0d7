package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/josh-kwaku/securebank/internal/auth"
)

func callerID(r *http.Request) (uuid.UUID, *AppError) {
	id, ok := auth.AccountIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, ErrMissingToken
	}
	return id, nil
}

// ownedResource returns the caller and the {id} path parameter. Malformed
// ids are reported as not found, like resources owned by someone else.
func ownedResource(r *http.Request) (accountID, resourceID uuid.UUID, appErr *AppError) {
	accountID, appErr = callerID(r)
	if appErr != nil {
		return uuid.Nil, uuid.Nil, appErr
	}

	resourceID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, ErrResourceNotFound
	}
	return accountID, resourceID, nil
}
