package dto

import "net/http"

// General error codes used by the HTTP layer itself
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeNotFound   = "NOT_FOUND"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes absent from the map fall back to 422: an unknown domain error is
// still a rejected business operation, not a server fault.
var errorCodeHTTPStatus = map[string]int{
	"NOT_FOUND":      http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,
	"FORBIDDEN":      http.StatusForbidden,

	// Contended writes
	"VERSION_CONFLICT": http.StatusConflict,

	// Availability failures surface as conflicts: the request was valid,
	// the current stock state just cannot satisfy it
	"INSUFFICIENT_STOCK":     http.StatusConflict,
	"INSUFFICIENT_INVENTORY": http.StatusConflict,

	// Malformed or out-of-range input
	"BAD_REQUEST":             http.StatusBadRequest,
	"INVALID_INPUT":           http.StatusBadRequest,
	"INVALID_REGION":          http.StatusBadRequest,
	"INVALID_QUANTITY":        http.StatusBadRequest,
	"INVALID_AFFILIATE_CODE":  http.StatusBadRequest,
	"INVALID_CARRIER":         http.StatusBadRequest,
	"INVALID_TRACKING_NUMBER": http.StatusBadRequest,
	"INVALID_REASON":          http.StatusBadRequest,
	"INVALID_AMOUNT":          http.StatusBadRequest,
	"INVALID_COMMISSION":      http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
