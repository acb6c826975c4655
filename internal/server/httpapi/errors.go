package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
)

// writeError maps a service error class to an HTTP status. Infrastructure
// and unknown errors get a generic message.
func writeError(w http.ResponseWriter, err error) {
	status, message := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, common.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrConflict):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, common.ErrUnauthenticated):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, common.ErrInfrastructure):
		status, message = http.StatusServiceUnavailable, common.ErrInfrastructure.Error()
	}
	writeJSON(w, status, ApiResponse{StatusCode: status, Message: message})
}
