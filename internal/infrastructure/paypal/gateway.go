// Package paypal implements the PaymentGateway interface against the PayPal
// Orders v2 and Payments v2 REST APIs through the resilient request client.
package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopsphere/payment-gateway/internal/config"
	"github.com/shopsphere/payment-gateway/internal/gateway"
	"github.com/shopsphere/payment-gateway/internal/infrastructure/httpclient"
	"github.com/shopsphere/payment-gateway/internal/orders"
)

// Name is the registry key for this gateway.
const Name = "paypal"

const intentCapture = "CAPTURE"

type Gateway struct {
	client        *httpclient.Client
	statusStore   orders.StatusStore
	webhookSecret string
	logger        *slog.Logger
}

var _ gateway.PaymentGateway = (*Gateway)(nil)

func New(cfg config.PayPalConfig, retry config.RetryConfig, breaker config.BreakerConfig, statusStore orders.StatusStore, logger *slog.Logger) *Gateway {
	client := httpclient.New(
		cfg.BaseURL(),
		httpclient.BasicAuth{Username: cfg.ClientID, Password: cfg.ClientSecret},
		httpclient.Options{
			MaxRetries:       retry.MaxRetries,
			RetryDelay:       retry.RetryDelay,
			FailureThreshold: breaker.FailureThreshold,
			ResetWindow:      breaker.ResetWindow,
			Timeout:          cfg.ConnTimeout,
		},
		logger.With("gateway", Name),
	)

	return &Gateway{
		client:        client,
		statusStore:   statusStore,
		webhookSecret: cfg.WebhookSecret,
		logger:        logger.With("gateway", Name),
	}
}

func (g *Gateway) CreateOrder(ctx context.Context, amountValue float64, currency string, details *gateway.OrderCreationRequest) (*gateway.Order, error) {
	if amountValue <= 0 {
		return nil, &gateway.PaymentError{
			Kind:    gateway.KindBusinessLogicError,
			Message: "order amount must be positive",
		}
	}
	if len(currency) != 3 {
		return nil, &gateway.PaymentError{
			Kind:    gateway.KindBusinessLogicError,
			Message: fmt.Sprintf("invalid currency code %q", currency),
		}
	}

	unit := purchaseUnit{
		Amount: amount{
			CurrencyCode: currency,
			Value:        formatAmount(amountValue),
		},
	}
	if details != nil {
		unit.InvoiceID = details.InvoiceID
	}

	req := createOrderRequest{
		Intent:        intentCapture,
		PurchaseUnits: []purchaseUnit{unit},
	}

	resp, err := g.client.Do(ctx, http.MethodPost, "/v2/checkout/orders", req)
	if err != nil {
		return nil, translateError(err)
	}

	var order orderResponse
	if err := json.Unmarshal(resp.Body, &order); err != nil {
		return nil, malformedResponse(err)
	}

	g.logger.Info("order created", "order_id", order.ID, "status", order.Status)

	return &gateway.Order{
		ID:     order.ID,
		Status: gateway.OrderStatus(order.Status),
	}, nil
}

func (g *Gateway) CapturePayment(ctx context.Context, orderID string, payerID string) (*gateway.CaptureResponse, error) {
	resp, err := g.client.Do(ctx, http.MethodPost, "/v2/checkout/orders/"+orderID+"/capture", nil)
	if err != nil {
		// PayPal rejects a second capture of the same order; resolve it
		// idempotently by returning the existing terminal status.
		if errorHasIssue(err, issueOrderAlreadyCaptured) {
			g.logger.Info("order already captured, fetching existing capture", "order_id", orderID)
			return g.fetchCapture(ctx, orderID)
		}
		return nil, translateError(err)
	}

	var order orderResponse
	if err := json.Unmarshal(resp.Body, &order); err != nil {
		return nil, malformedResponse(err)
	}

	captureResp, err := captureFromOrder(orderID, order)
	if err != nil {
		return nil, err
	}

	g.logger.Info("payment captured",
		"order_id", orderID,
		"transaction_id", captureResp.TransactionID,
		"status", captureResp.Status,
	)
	return captureResp, nil
}

func (g *Gateway) RefundPayment(ctx context.Context, transactionID string, amountValue float64, currency string) (*gateway.RefundResponse, error) {
	// Omitting the body entirely asks PayPal for a full refund.
	var req any
	if amountValue > 0 {
		req = &refundRequest{
			Amount: &amount{
				CurrencyCode: currency,
				Value:        formatAmount(amountValue),
			},
		}
	}

	resp, err := g.client.Do(ctx, http.MethodPost, "/v2/payments/captures/"+transactionID+"/refund", req)
	if err != nil {
		return nil, translateError(err)
	}

	var refund refundResponse
	if err := json.Unmarshal(resp.Body, &refund); err != nil {
		return nil, malformedResponse(err)
	}

	refunded, _ := strconv.ParseFloat(refund.Amount.Value, 64)

	g.logger.Info("refund issued",
		"transaction_id", transactionID,
		"refund_id", refund.ID,
		"status", refund.Status,
	)

	return &gateway.RefundResponse{
		RefundID:       refund.ID,
		TransactionID:  transactionID,
		Status:         mapRefundStatus(refund.Status),
		AmountRefunded: refunded,
		Currency:       refund.Amount.CurrencyCode,
	}, nil
}

func (g *Gateway) VoidPayment(ctx context.Context, authorizationID string) (*gateway.VoidResponse, error) {
	// A successful void returns 204 with no body.
	_, err := g.client.Do(ctx, http.MethodPost, "/v2/payments/authorizations/"+authorizationID+"/void", nil)
	if err != nil {
		return nil, translateError(err)
	}

	g.logger.Info("authorization voided", "authorization_id", authorizationID)

	return &gateway.VoidResponse{
		AuthorizationID: authorizationID,
		Status:          gateway.VoidStatusSuccess,
	}, nil
}

// fetchCapture reads an order back and reports its existing capture, used
// when a capture call finds the order already settled.
func (g *Gateway) fetchCapture(ctx context.Context, orderID string) (*gateway.CaptureResponse, error) {
	resp, err := g.client.Do(ctx, http.MethodGet, "/v2/checkout/orders/"+orderID, nil)
	if err != nil {
		return nil, translateError(err)
	}

	var order orderResponse
	if err := json.Unmarshal(resp.Body, &order); err != nil {
		return nil, malformedResponse(err)
	}

	return captureFromOrder(orderID, order)
}

func captureFromOrder(orderID string, order orderResponse) (*gateway.CaptureResponse, error) {
	for _, unit := range order.PurchaseUnits {
		if unit.Payments == nil {
			continue
		}
		for _, cap := range unit.Payments.Captures {
			captured, _ := strconv.ParseFloat(cap.Amount.Value, 64)
			return &gateway.CaptureResponse{
				OrderID:        orderID,
				TransactionID:  cap.ID,
				Status:         mapCaptureStatus(cap.Status),
				AmountCaptured: captured,
				Currency:       cap.Amount.CurrencyCode,
			}, nil
		}
	}

	return nil, &gateway.PaymentError{
		Kind:       gateway.KindUnknownError,
		Message:    fmt.Sprintf("PayPal order %s has no capture record", orderID),
		StatusCode: http.StatusOK,
	}
}

func mapCaptureStatus(status string) gateway.CaptureStatus {
	switch status {
	case "COMPLETED":
		return gateway.CaptureStatusSuccess
	case "PENDING":
		return gateway.CaptureStatusPending
	case "REFUNDED", "PARTIALLY_REFUNDED":
		return gateway.CaptureStatusRefunded
	case "DECLINED", "FAILED":
		return gateway.CaptureStatusFailed
	default:
		return gateway.CaptureStatusPending
	}
}

func mapRefundStatus(status string) gateway.RefundStatus {
	switch status {
	case "COMPLETED":
		return gateway.RefundStatusSuccess
	case "PENDING":
		return gateway.RefundStatusPending
	default:
		return gateway.RefundStatusFailed
	}
}

func malformedResponse(err error) *gateway.PaymentError {
	return &gateway.PaymentError{
		Kind:    gateway.KindUnknownError,
		Message: "malformed response from PayPal",
		Details: err.Error(),
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
