package paypal

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopsphere/payment-gateway/internal/gateway"
	"github.com/shopsphere/payment-gateway/internal/orders"
	"github.com/shopsphere/payment-gateway/internal/webhook"
)

// Webhook headers sent with every PayPal event notification.
const (
	HeaderTransmissionID   = "Paypal-Transmission-Id"
	HeaderTransmissionSig  = "Paypal-Transmission-Sig"
	HeaderTransmissionTime = "Paypal-Transmission-Time"
)

// Webhook event types this gateway acts on.
const (
	eventCaptureCompleted = "PAYMENT.CAPTURE.COMPLETED"
	eventCaptureDenied    = "PAYMENT.CAPTURE.DENIED"
	eventRefundCompleted  = "REFUND.COMPLETED"
)

// ProcessWebhook verifies the transmission signature and timestamp, then
// dispatches the event to the order-status collaborator. Verification
// failures reject the event; they never fall through to processing.
func (g *Gateway) ProcessWebhook(ctx context.Context, headers http.Header, rawBody []byte) error {
	signature := headers.Get(HeaderTransmissionSig)
	transmissionTime := headers.Get(HeaderTransmissionTime)

	// A missing or unparseable header is a malformed request; only a
	// verification failure on well-formed input is treated as hostile.
	ts, err := time.Parse(time.RFC3339, transmissionTime)
	if err != nil {
		g.logger.Warn("webhook rejected, missing or malformed transmission time",
			"transmission_id", headers.Get(HeaderTransmissionID),
		)
		return &gateway.PaymentError{
			Kind:    gateway.KindClientError,
			Message: "missing or malformed webhook transmission time",
		}
	}

	if !webhook.Verify(rawBody, signature, g.webhookSecret, ts, webhook.Options{}) {
		g.logger.Warn("webhook rejected, signature verification failed",
			"transmission_id", headers.Get(HeaderTransmissionID),
		)
		return &gateway.PaymentError{
			Kind:    gateway.KindAuthenticationError,
			Message: "webhook signature verification failed",
		}
	}

	var event webhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return &gateway.PaymentError{
			Kind:    gateway.KindClientError,
			Message: "malformed webhook payload",
			Details: err.Error(),
		}
	}

	return g.dispatchEvent(ctx, event)
}

func (g *Gateway) dispatchEvent(ctx context.Context, event webhookEvent) error {
	orderID := event.Resource.InvoiceID
	if orderID == "" {
		orderID = event.Resource.CustomID
	}
	transactionID := event.Resource.ID

	switch event.EventType {
	case eventCaptureCompleted:
		g.logger.Info("processing capture completed event",
			"event_id", event.ID, "order_id", orderID, "transaction_id", transactionID)
		return g.statusStore.UpdateOrderStatus(ctx, orderID, orders.StatusCompleted, transactionID)

	case eventCaptureDenied:
		g.logger.Warn("processing capture denied event",
			"event_id", event.ID, "order_id", orderID, "transaction_id", transactionID)
		return g.statusStore.UpdateOrderStatus(ctx, orderID, orders.StatusDenied, transactionID)

	case eventRefundCompleted:
		g.logger.Info("processing refund completed event",
			"event_id", event.ID, "order_id", orderID, "refund_id", transactionID)
		return g.statusStore.UpdateOrderStatus(ctx, orderID, orders.StatusRefunded, transactionID)

	default:
		g.logger.Info("ignoring unhandled webhook event type",
			"event_id", event.ID, "event_type", event.EventType)
		return nil
	}
}
