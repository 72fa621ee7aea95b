package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopsphere/payment-gateway/internal/gateway"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: status >= 200 && status < 300,
	}

	if response.Success {
		response.Data = data
	} else if apiErr, ok := data.(*APIError); ok {
		response.Error = apiErr
	}

	_ = json.NewEncoder(w).Encode(response)
}

func respondWithError(w http.ResponseWriter, err error) {
	respondWithJSON(w, statusForError(err), &APIError{
		Code:    errorCode(err),
		Message: err.Error(),
	})
}

// statusForError maps the error taxonomy to HTTP statuses: client,
// configuration, and business failures are the caller's to fix; auth and
// signature failures are forbidden; upstream trouble is a server error.
func statusForError(err error) int {
	pe, ok := gateway.AsPaymentError(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch pe.Kind {
	case gateway.KindClientError, gateway.KindConfigurationError, gateway.KindBusinessLogicError:
		return http.StatusBadRequest
	case gateway.KindAuthenticationError:
		return http.StatusForbidden
	case gateway.KindCircuitOpen:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(err error) string {
	pe, ok := gateway.AsPaymentError(err)
	if !ok {
		return string(gateway.KindUnknownError)
	}
	if pe.GatewayCode != "" {
		return pe.GatewayCode
	}
	return string(pe.Kind)
}
