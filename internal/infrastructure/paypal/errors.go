package paypal

import (
	"encoding/json"

	"github.com/shopsphere/payment-gateway/internal/gateway"
)

// PayPal error names and detail issues this gateway understands.
const (
	errUnprocessableEntity   = "UNPROCESSABLE_ENTITY"
	errInvalidRequest        = "INVALID_REQUEST"
	errAuthenticationFailure = "AUTHENTICATION_FAILURE"
	errResourceNotFound      = "RESOURCE_NOT_FOUND"

	issueInstrumentDeclined   = "INSTRUMENT_DECLINED"
	issueInsufficientFunds    = "INSUFFICIENT_FUNDS"
	issueOrderAlreadyCaptured = "ORDER_ALREADY_CAPTURED"
	issueInvalidCurrency      = "CURRENCY_NOT_SUPPORTED"
)

// translateError refines the generic classification produced by the request
// client using PayPal's error body, so callers only ever see the shared
// taxonomy. Errors without an HTTP response (network, circuit open) pass
// through unchanged.
func translateError(err error) error {
	pe, ok := gateway.AsPaymentError(err)
	if !ok || pe.StatusCode == 0 {
		return err
	}

	var body errorResponse
	if unmarshalErr := json.Unmarshal(pe.Raw, &body); unmarshalErr != nil || body.Name == "" {
		if pe.Kind == gateway.KindServerError {
			// Keep the retry-relevant classification, name it for what
			// it is at the gateway boundary.
			return &gateway.PaymentError{
				Message:    "PayPal internal server error",
				Kind:       gateway.KindGatewayError,
				StatusCode: pe.StatusCode,
				Details:    pe.Details,
			}
		}
		return pe
	}

	switch body.Name {
	case errUnprocessableEntity:
		if body.hasIssue(issueInstrumentDeclined) {
			return businessError("payment instrument declined", pe.StatusCode, issueInstrumentDeclined, pe.Details)
		}
		if body.hasIssue(issueInsufficientFunds) {
			return businessError("insufficient funds", pe.StatusCode, issueInsufficientFunds, pe.Details)
		}
		if body.hasIssue(issueInvalidCurrency) {
			return businessError("currency not supported for this payment", pe.StatusCode, issueInvalidCurrency, pe.Details)
		}
		return businessError("PayPal could not process the request", pe.StatusCode, body.Name, pe.Details)

	case errInvalidRequest:
		return businessError("invalid request data sent to PayPal", pe.StatusCode, body.Name, pe.Details)

	case errAuthenticationFailure:
		return &gateway.PaymentError{
			Message:     "authentication failed with PayPal, check API credentials",
			Kind:        gateway.KindAuthenticationError,
			StatusCode:  pe.StatusCode,
			GatewayCode: body.Name,
			Details:     pe.Details,
		}

	case errResourceNotFound:
		return businessError("PayPal resource not found, the order id may be invalid", pe.StatusCode, body.Name, pe.Details)
	}

	if pe.StatusCode >= 500 {
		return &gateway.PaymentError{
			Message:     "PayPal internal server error",
			Kind:        gateway.KindGatewayError,
			StatusCode:  pe.StatusCode,
			GatewayCode: body.Name,
			Details:     pe.Details,
		}
	}

	return &gateway.PaymentError{
		Message:     "PayPal rejected the request",
		Kind:        pe.Kind,
		StatusCode:  pe.StatusCode,
		GatewayCode: body.Name,
		Details:     pe.Details,
	}
}

func businessError(message string, status int, code, details string) *gateway.PaymentError {
	return &gateway.PaymentError{
		Message:     message,
		Kind:        gateway.KindBusinessLogicError,
		StatusCode:  status,
		GatewayCode: code,
		Details:     details,
	}
}

// errorHasIssue inspects a classified error for a PayPal detail issue
// without losing the original error.
func errorHasIssue(err error, issue string) bool {
	pe, ok := gateway.AsPaymentError(err)
	if !ok || len(pe.Raw) == 0 {
		return false
	}
	var body errorResponse
	if json.Unmarshal(pe.Raw, &body) != nil {
		return false
	}
	return body.hasIssue(issue)
}
