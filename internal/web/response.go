package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/vbonduro/boatlog/internal/domain"
)

const maxBodyBytes = 1 << 20

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("error encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

func jsonMessage(w http.ResponseWriter, message string) {
	jsonResponse(w, http.StatusOK, map[string]string{"message": message})
}

// jsonList writes a 200 array response; nil slices are written as [].
func jsonList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// decodeJSON decodes a size-limited JSON request body into target.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer closeWithLog(r.Body, "request body")
	return json.NewDecoder(r.Body).Decode(target)
}

// bodyErrorMessage describes a decodeJSON failure to the client.
func bodyErrorMessage(err error) string {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return "Request body too large"
	case errors.Is(err, errNotNumeric):
		return "Quantity must be a number"
	default:
		return "Invalid request body"
	}
}

// resource names an entity in the messages of its endpoints.
type resource struct {
	name     string // lower case, e.g. "booking"
	notFound string
}

var (
	bookingResource   = resource{name: "booking", notFound: "Booking not found"}
	inventoryResource = resource{name: "inventory item", notFound: "Inventory item not found"}
	logResource       = resource{name: "log", notFound: "Log not found"}
)

// writeServiceError maps a service error onto a status code. Errors that are
// not part of the domain taxonomy are logged and reported as a generic
// failure of action.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, res resource, action string, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonError(w, http.StatusBadRequest, ve.Msg)
	case errors.Is(err, domain.ErrBookingConflict):
		jsonError(w, http.StatusConflict, "Boat is not available for the selected dates")
	case errors.Is(err, domain.ErrNotFound):
		jsonError(w, http.StatusNotFound, res.notFound)
	default:
		logFromRequest(s.logger, r).Error("request failed", "action", action, "resource", res.name, "error", err)
		jsonError(w, http.StatusInternalServerError, "Failed to "+action+" "+res.name)
	}
}

func closeWithLog(c io.Closer, what string) {
	if err := c.Close(); err != nil {
		slog.Debug("close failed", "what", what, "error", err)
	}
}
