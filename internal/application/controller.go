// Package application orchestrates checkout initiation, payment capture,
// and webhook dispatch across the registered payment gateways.
package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shopsphere/payment-gateway/internal/gateway"
	"github.com/shopsphere/payment-gateway/internal/infrastructure/paypal"
)

// gatewayFingerprints maps a provider-specific webhook header to the
// registry name of the gateway that sent it.
var gatewayFingerprints = []struct {
	header  string
	gateway string
}{
	{paypal.HeaderTransmissionID, paypal.Name},
}

type CheckoutResult struct {
	OrderID string `json:"orderId"`
}

// PaymentController is the boundary the REST handlers call into. It holds
// no per-request state; the registry is read-only after startup.
type PaymentController struct {
	registry *gateway.Registry
	logger   *slog.Logger
}

func NewPaymentController(registry *gateway.Registry, logger *slog.Logger) *PaymentController {
	return &PaymentController{
		registry: registry,
		logger:   logger,
	}
}

// InitiateCheckout creates a provider order for the requested amount.
func (c *PaymentController) InitiateCheckout(ctx context.Context, amount float64, currency, gatewayName string) (*CheckoutResult, error) {
	c.logger.Info("initiating checkout",
		"amount", amount,
		"currency", currency,
		"gateway", gatewayName,
	)

	gw, err := c.registry.Get(gatewayName)
	if err != nil {
		return nil, err
	}

	order, err := gw.CreateOrder(ctx, amount, currency, nil)
	if err != nil {
		return nil, err
	}

	c.logger.Info("order created",
		"gateway", gatewayName,
		"order_id", order.ID,
		"amount", amount,
		"currency", currency,
	)
	return &CheckoutResult{OrderID: order.ID}, nil
}

// ProcessPayment captures a previously approved order and returns the
// capture response verbatim.
func (c *PaymentController) ProcessPayment(ctx context.Context, orderID, payerID, gatewayName string) (*gateway.CaptureResponse, error) {
	c.logger.Info("processing payment capture",
		"order_id", orderID,
		"gateway", gatewayName,
	)

	gw, err := c.registry.Get(gatewayName)
	if err != nil {
		return nil, err
	}

	capture, err := gw.CapturePayment(ctx, orderID, payerID)
	if err != nil {
		return nil, err
	}

	c.logger.Info("payment capture completed",
		"order_id", orderID,
		"gateway", gatewayName,
		"capture_status", capture.Status,
	)
	return capture, nil
}

// HandleWebhook identifies the sending gateway from the request headers and
// delegates verification and dispatch to it. An unrecognized fingerprint is
// a client error; everything the gateway raises propagates typed.
func (c *PaymentController) HandleWebhook(ctx context.Context, headers http.Header, body []byte) error {
	gatewayName := determineGateway(headers)
	if gatewayName == "" {
		c.logger.Error("unknown gateway type for incoming webhook")
		return &gateway.PaymentError{
			Kind:    gateway.KindClientError,
			Message: "unknown gateway type",
		}
	}

	gw, err := c.registry.Get(gatewayName)
	if err != nil {
		return err
	}

	webhookID := peekWebhookID(body)

	if err := gw.ProcessWebhook(ctx, headers, body); err != nil {
		c.logger.Error("error processing webhook",
			"gateway", gatewayName,
			"webhook_id", webhookID,
			"error", err.Error(),
		)
		return fmt.Errorf("processing %s webhook: %w", gatewayName, err)
	}

	c.logger.Info("webhook processed successfully",
		"gateway", gatewayName,
		"webhook_id", webhookID,
	)
	return nil
}

func determineGateway(headers http.Header) string {
	for _, fp := range gatewayFingerprints {
		if headers.Get(fp.header) != "" {
			return fp.gateway
		}
	}
	return ""
}

// peekWebhookID extracts the event id for log correlation without decoding
// the full payload.
func peekWebhookID(body []byte) string {
	var envelope struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.ID
}
