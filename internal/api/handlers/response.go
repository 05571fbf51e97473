package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/venysssssssssss/data-intake-selic-bc/internal/contracts"
)

// CategoryBadRequest marks a request that could not be decoded
const CategoryBadRequest = "bad_request"

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// IngestResponse is the body of a successful ingestion
type IngestResponse struct {
	Status        string              `json:"status"`
	Message       string              `json:"message"`
	RowsProcessed int                 `json:"rows_processed"`
	BatchID       string              `json:"batch_id,omitempty"`
	Mode          contracts.BatchMode `json:"mode,omitempty"`
}

func newIngestResponse(message string, result *contracts.IngestResult) IngestResponse {
	return IngestResponse{
		Status:        "success",
		Message:       message,
		RowsProcessed: result.RowsProcessed,
		BatchID:       result.BatchID,
		Mode:          result.Mode,
	}
}

// StatusFor maps an error category to its HTTP status
func StatusFor(category string) int {
	switch category {
	case CategoryBadRequest:
		return http.StatusBadRequest
	case contracts.CategoryFormat, contracts.CategoryValidation:
		return http.StatusUnprocessableEntity
	case contracts.CategoryNotFound:
		return http.StatusNotFound
	case contracts.CategoryUpstreamFetch:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, category, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   category,
		Message: message,
	})
}

// respondFailure classifies err and writes it with its own message
func respondFailure(w http.ResponseWriter, err error) {
	category := contracts.Category(err)
	respondError(w, StatusFor(category), category, err.Error())
}

// RespondNotFound answers unknown routes
func RespondNotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, contracts.CategoryNotFound, "route "+r.URL.Path+" not found")
}

// RespondMethodNotAllowed answers known routes called with the wrong method
func RespondMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, CategoryBadRequest, "method "+r.Method+" not allowed on "+r.URL.Path)
}

// RespondInternal answers a recovered panic
func RespondInternal(w http.ResponseWriter) {
	respondError(w, http.StatusInternalServerError, contracts.CategoryInternal, "Internal server error")
}
