package platformerrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HTTPErrorResponse is the standard error envelope.
type HTTPErrorResponse struct {
	Error *HTTPErrorDetail `json:"error"`
}

// HTTPErrorDetail contains error details for HTTP responses.
type HTTPErrorDetail struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorTypeToHTTPStatus maps the classified type to an HTTP status code.
// Credential failures against the provider surface as 503: the API key is a
// service misconfiguration, not the caller's fault.
func ErrorTypeToHTTPStatus(errorType ErrorType) int {
	switch errorType {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeRateLimited:
		return http.StatusTooManyRequests
	case ErrorTypeInvalidCredentials, ErrorTypeAccessForbidden,
		ErrorTypeProviderUnavailable, ErrorTypeNetwork, ErrorTypeTimeout:
		return http.StatusServiceUnavailable
	case ErrorTypeProviderBadRequest, ErrorTypeInvalidResponse,
		ErrorTypeEmptyResponse, ErrorTypeUpstreamResponse:
		return http.StatusBadGateway
	case ErrorTypePersistence, ErrorTypeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func errorTypeToString(errorType ErrorType) string {
	switch errorType {
	case ErrorTypeValidation:
		return "validation_error"
	case ErrorTypeNotFound:
		return "not_found_error"
	case ErrorTypeUnauthorized:
		return "unauthorized_error"
	case ErrorTypeRateLimited:
		return "rate_limited_error"
	case ErrorTypeInvalidCredentials, ErrorTypeAccessForbidden:
		return "provider_auth_error"
	case ErrorTypeProviderUnavailable, ErrorTypeNetwork, ErrorTypeTimeout:
		return "provider_unavailable_error"
	case ErrorTypeProviderBadRequest, ErrorTypeInvalidResponse,
		ErrorTypeEmptyResponse, ErrorTypeUpstreamResponse:
		return "upstream_response_error"
	case ErrorTypePersistence:
		return "persistence_error"
	default:
		return "internal_error"
	}
}

// WriteError writes an error as an HTTP response. PlatformErrors map to their
// classified status; anything else is treated as internal.
func WriteError(c *gin.Context, err error, log zerolog.Logger) {
	if err == nil {
		c.JSON(http.StatusInternalServerError, HTTPErrorResponse{
			Error: &HTTPErrorDetail{Message: "unknown error", Type: "internal_error"},
		})
		return
	}

	platformErr := GetPlatformError(err)
	if platformErr == nil {
		log.Error().Err(err).Msg("unclassified error")
		c.JSON(http.StatusInternalServerError, HTTPErrorResponse{
			Error: &HTTPErrorDetail{Message: "internal error", Type: "internal_error"},
		})
		return
	}

	log.Error().
		Err(platformErr.Err).
		Str("error_type", string(platformErr.Type)).
		Str("layer", string(platformErr.Layer)).
		Str("code", platformErr.UUID).
		Str("request_id", platformErr.RequestID).
		Msg(platformErr.Message)

	c.JSON(ErrorTypeToHTTPStatus(platformErr.Type), HTTPErrorResponse{
		Error: &HTTPErrorDetail{
			Message:   platformErr.Message,
			Type:      errorTypeToString(platformErr.Type),
			Code:      platformErr.UUID,
			RequestID: platformErr.RequestID,
		},
	})
}

// WriteValidationError writes a 400 Bad Request response.
func WriteValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, HTTPErrorResponse{
		Error: &HTTPErrorDetail{Message: message, Type: "validation_error"},
	})
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, HTTPErrorResponse{
		Error: &HTTPErrorDetail{Message: message, Type: "not_found_error"},
	})
}
