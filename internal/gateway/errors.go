package gateway

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a payment failure for retry and response mapping.
type ErrorKind string

const (
	KindNetworkError        ErrorKind = "NETWORK_ERROR"
	KindGatewayError        ErrorKind = "GATEWAY_ERROR"
	KindBusinessLogicError  ErrorKind = "BUSINESS_LOGIC_ERROR"
	KindAuthenticationError ErrorKind = "AUTHENTICATION_ERROR"
	KindClientError         ErrorKind = "CLIENT_ERROR"
	KindServerError         ErrorKind = "SERVER_ERROR"
	KindUnknownError        ErrorKind = "UNKNOWN_ERROR"
	KindCircuitOpen         ErrorKind = "CIRCUIT_OPEN"
	KindConfigurationError  ErrorKind = "CONFIGURATION_ERROR"
)

// PaymentError is the single error shape that crosses the gateway boundary.
// Provider-native error responses are translated into one of these before
// they leave the gateway package that produced them. Immutable once built.
type PaymentError struct {
	Message     string
	Kind        ErrorKind
	StatusCode  int
	GatewayCode string
	// Details is a truncated, redacted view of the upstream response,
	// safe for logs.
	Details string
	// Raw preserves the original response body so provider gateways can
	// refine the classification. Never logged.
	Raw []byte
}

func (e *PaymentError) Error() string {
	if e.GatewayCode != "" {
		return fmt.Sprintf("payment error [%s/%s]: %s (status: %d)", e.Kind, e.GatewayCode, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("payment error [%s]: %s", e.Kind, e.Message)
}

func NewPaymentError(kind ErrorKind, message string) *PaymentError {
	return &PaymentError{Kind: kind, Message: message}
}

// AsPaymentError unwraps err into a *PaymentError if one is in the chain.
func AsPaymentError(err error) (*PaymentError, bool) {
	var pe *PaymentError
	ok := errors.As(err, &pe)
	return pe, ok
}

// KindOf returns the taxonomy kind for any error. Errors produced outside
// the gateway layer fall back to UNKNOWN_ERROR.
func KindOf(err error) ErrorKind {
	if pe, ok := AsPaymentError(err); ok {
		return pe.Kind
	}
	return KindUnknownError
}
