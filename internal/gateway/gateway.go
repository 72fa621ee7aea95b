package gateway

import (
	"context"
	"net/http"
)

// PaymentGateway is the uniform interface every external provider is wrapped
// behind. Implementations translate provider-native failures into
// *PaymentError before returning.
type PaymentGateway interface {
	// CreateOrder registers a new order with the provider. amount is a
	// positive major-unit value and currency a 3-letter ISO code.
	CreateOrder(ctx context.Context, amount float64, currency string, details *OrderCreationRequest) (*Order, error)

	// CapturePayment settles a previously approved order. Capturing an
	// already-captured order resolves to the existing terminal status
	// where the provider supports idempotent capture.
	CapturePayment(ctx context.Context, orderID string, payerID string) (*CaptureResponse, error)

	// RefundPayment refunds a captured transaction, fully when amount is 0.
	RefundPayment(ctx context.Context, transactionID string, amount float64, currency string) (*RefundResponse, error)

	// VoidPayment cancels an authorization before capture.
	VoidPayment(ctx context.Context, authorizationID string) (*VoidResponse, error)

	// ProcessWebhook verifies the provider signature over rawBody and
	// dispatches the event. Unverified signatures fail closed.
	ProcessWebhook(ctx context.Context, headers http.Header, rawBody []byte) error
}
