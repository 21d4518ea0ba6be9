// Package request holds helpers shared by the v1 handlers: caller identity
// parsing and the domain-error to HTTP-status mapping.
package request

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/FBLACOMPBG2024/ledger-server/internal/ledger"
)

// Owner carries the caller identity header. The value is set by the auth
// gateway in front of this service, so it is trusted once present.
type Owner struct {
	UserID string `header:"X-User-ID" doc:"Verified owner UUID, set by the auth gateway"`
}

// OwnerID parses the identity header. Absent or malformed values are rejected
// with 401; the gateway never forwards a request without a valid header.
func (o Owner) OwnerID() (uuid.UUID, error) {
	if o.UserID == "" {
		return uuid.Nil, huma.NewError(http.StatusUnauthorized, "missing X-User-ID header")
	}
	ownerID, err := uuid.FromString(o.UserID)
	if err != nil {
		return uuid.Nil, huma.NewError(http.StatusUnauthorized, "invalid X-User-ID header", err)
	}
	return ownerID, nil
}

// Error maps a domain error onto the matching HTTP status. message is used
// for failures outside the ledger taxonomy.
func Error(message string, err error) error {
	var validationErr *ledger.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return huma.NewError(http.StatusUnprocessableEntity, validationErr.Error())
	case errors.Is(err, ledger.ErrNotAuthorized):
		return huma.NewError(http.StatusForbidden, "not authorized", err)
	case errors.Is(err, ledger.ErrNotFound):
		return huma.NewError(http.StatusNotFound, "not found", err)
	case errors.Is(err, ledger.ErrStoreUnavailable):
		return huma.NewError(http.StatusServiceUnavailable, "storage unavailable", err)
	case errors.Is(err, ledger.ErrExternalSourceUnavailable):
		return huma.NewError(http.StatusBadGateway, "bank feed unavailable", err)
	case errors.Is(err, ledger.ErrBalanceInconsistent):
		return huma.NewError(http.StatusConflict, "balance inconsistent", err)
	default:
		return huma.NewError(http.StatusInternalServerError, message, err)
	}
}
