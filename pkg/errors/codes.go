package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// The prefix before the underscore names the owning module.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeCacheMiss          ErrorCode = "COMMON_017"
	ErrCodeTemplate           ErrorCode = "COMMON_018"
)

// Pseudo codes used by GetCode.
const (
	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")
)

// Structure Module Error Codes
const (
	ErrCodeAdjacencyListInvalid ErrorCode = "STR_001"
	ErrCodeURLDecodeFailed      ErrorCode = "STR_002"
	ErrCodeStructureInvalid     ErrorCode = "STR_003"
	ErrCodeRouteNotFound        ErrorCode = "STR_004"
	ErrCodeRouteParamMissing    ErrorCode = "STR_005"
)

// Depiction (image storage) Module Error Codes
const (
	ErrCodeDepictionNotFound ErrorCode = "IMG_001"
	ErrCodeStorage           ErrorCode = "IMG_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeCacheMiss:          http.StatusNotFound,
	ErrCodeTemplate:           http.StatusInternalServerError,

	ErrCodeAdjacencyListInvalid: http.StatusBadRequest,
	ErrCodeURLDecodeFailed:      http.StatusBadRequest,
	ErrCodeStructureInvalid:     http.StatusBadRequest,
	ErrCodeRouteNotFound:        http.StatusInternalServerError,
	ErrCodeRouteParamMissing:    http.StatusInternalServerError,

	ErrCodeDepictionNotFound: http.StatusNotFound,
	ErrCodeStorage:           http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeCacheMiss:          "cache miss",
	ErrCodeTemplate:           "template rendering failed",

	ErrCodeAdjacencyListInvalid: "invalid adjacency list",
	ErrCodeURLDecodeFailed:      "invalid percent-encoding",
	ErrCodeStructureInvalid:     "invalid structure",
	ErrCodeRouteNotFound:        "no route with that name",
	ErrCodeRouteParamMissing:    "route parameter missing",

	ErrCodeDepictionNotFound: "structure depiction not found",
	ErrCodeStorage:           "object storage error",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 1 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
