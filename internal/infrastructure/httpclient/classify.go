package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/shopsphere/payment-gateway/internal/gateway"
)

// ClassifyStatus maps a non-2xx HTTP response to the shared error taxonomy.
// Provider gateways refine the result (e.g. promoting a 422 decline to
// BUSINESS_LOGIC_ERROR) before it crosses their boundary.
func ClassifyStatus(statusCode int, body []byte) *gateway.PaymentError {
	kind := gateway.KindUnknownError
	message := "unexpected response from upstream API"

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		kind = gateway.KindAuthenticationError
		message = "authentication or authorization failed with upstream API"
	case statusCode >= 400 && statusCode < 500:
		kind = gateway.KindClientError
		message = "upstream API rejected the request"
	case statusCode >= 500:
		kind = gateway.KindServerError
		message = "upstream API internal error"
	}

	return &gateway.PaymentError{
		Message:    message,
		Kind:       kind,
		StatusCode: statusCode,
		Details:    BodyPreview(body),
		Raw:        body,
	}
}

// ClassifyTransport maps a failure where no response was received.
func ClassifyTransport(err error) *gateway.PaymentError {
	message := "network error during upstream request"
	if errors.Is(err, context.DeadlineExceeded) {
		message = "timeout during upstream request"
	}

	return &gateway.PaymentError{
		Message: message,
		Kind:    gateway.KindNetworkError,
		Details: err.Error(),
	}
}

// IsRetryable reports whether the classified error may be retried: network
// failures, and gateway/server errors with status >= 500. Everything else
// propagates immediately.
func IsRetryable(err error) bool {
	pe, ok := gateway.AsPaymentError(err)
	if !ok {
		return false
	}

	switch pe.Kind {
	case gateway.KindNetworkError:
		return true
	case gateway.KindGatewayError, gateway.KindServerError:
		return pe.StatusCode >= 500
	}
	return false
}

const maxBodyPreview = 256

var sensitiveField = regexp.MustCompile(`"(card_number|cvv|security_code|number|payer_token|token|client_secret|password|account_number)"\s*:\s*"[^"]*"`)

// BodyPreview returns a truncated view of a response body safe for logs:
// payment-instrument fields are redacted and the result is capped so raw
// payloads never land in log storage wholesale.
func BodyPreview(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	redacted := sensitiveField.ReplaceAllString(string(body), `"$1":"[REDACTED]"`)
	if len(redacted) > maxBodyPreview {
		return fmt.Sprintf("%s... (%d bytes total)", redacted[:maxBodyPreview], len(body))
	}
	return redacted
}
