package paypal

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"testing"
	"time"

	"github.com/shopsphere/payment-gateway/internal/gateway"
	"github.com/shopsphere/payment-gateway/internal/orders"
	"github.com/shopsphere/payment-gateway/internal/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return webhook.DefaultSignaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

func webhookHeaders(payload []byte, secret string) http.Header {
	h := http.Header{}
	h.Set(HeaderTransmissionID, "wh-transmission-1")
	h.Set(HeaderTransmissionSig, signPayload(payload, secret))
	h.Set(HeaderTransmissionTime, time.Now().UTC().Format(time.RFC3339))
	return h
}

func TestProcessWebhook_CaptureCompleted(t *testing.T) {
	g, store := newTestGateway(t, http.NotFoundHandler())
	payload := []byte(`{
		"id": "WH-1",
		"event_type": "PAYMENT.CAPTURE.COMPLETED",
		"resource": {"id": "TXN1", "status": "COMPLETED", "invoice_id": "ORDER123"}
	}`)

	err := g.ProcessWebhook(context.Background(), webhookHeaders(payload, testWebhookSecret), payload)

	require.NoError(t, err)
	calls := store.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, statusCall{"ORDER123", orders.StatusCompleted, "TXN1"}, calls[0])
}

func TestProcessWebhook_CaptureDenied(t *testing.T) {
	g, store := newTestGateway(t, http.NotFoundHandler())
	payload := []byte(`{
		"id": "WH-2",
		"event_type": "PAYMENT.CAPTURE.DENIED",
		"resource": {"id": "TXN2", "invoice_id": "ORDER124"}
	}`)

	err := g.ProcessWebhook(context.Background(), webhookHeaders(payload, testWebhookSecret), payload)

	require.NoError(t, err)
	calls := store.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, statusCall{"ORDER124", orders.StatusDenied, "TXN2"}, calls[0])
}

func TestProcessWebhook_RefundCompleted(t *testing.T) {
	g, store := newTestGateway(t, http.NotFoundHandler())
	payload := []byte(`{
		"id": "WH-3",
		"event_type": "REFUND.COMPLETED",
		"resource": {"id": "REFUND1", "custom_id": "ORDER125"}
	}`)

	err := g.ProcessWebhook(context.Background(), webhookHeaders(payload, testWebhookSecret), payload)

	require.NoError(t, err)
	calls := store.recorded()
	require.Len(t, calls, 1)
	// custom_id is the fallback when invoice_id is absent.
	assert.Equal(t, statusCall{"ORDER125", orders.StatusRefunded, "REFUND1"}, calls[0])
}

func TestProcessWebhook_TamperedSignatureRejected(t *testing.T) {
	g, store := newTestGateway(t, http.NotFoundHandler())
	payload := []byte(`{"id":"WH-1","event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"TXN1","invoice_id":"ORDER123"}}`)

	headers := webhookHeaders(payload, testWebhookSecret)
	tampered := append([]byte(nil), payload...)
	tampered[20] ^= 0x01

	err := g.ProcessWebhook(context.Background(), headers, tampered)

	require.Error(t, err)
	assert.Equal(t, gateway.KindAuthenticationError, gateway.KindOf(err))
	assert.Empty(t, store.recorded())
}

func TestProcessWebhook_WrongSecretRejected(t *testing.T) {
	g, store := newTestGateway(t, http.NotFoundHandler())
	payload := []byte(`{"id":"WH-1","event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"TXN1","invoice_id":"ORDER123"}}`)

	err := g.ProcessWebhook(context.Background(), webhookHeaders(payload, "some-other-secret"), payload)

	require.Error(t, err)
	assert.Equal(t, gateway.KindAuthenticationError, gateway.KindOf(err))
	assert.Empty(t, store.recorded())
}

func TestProcessWebhook_StaleTimestampRejected(t *testing.T) {
	g, store := newTestGateway(t, http.NotFoundHandler())
	payload := []byte(`{"id":"WH-1","event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"TXN1","invoice_id":"ORDER123"}}`)

	headers := webhookHeaders(payload, testWebhookSecret)
	headers.Set(HeaderTransmissionTime, time.Now().Add(-time.Hour).UTC().Format(time.RFC3339))

	err := g.ProcessWebhook(context.Background(), headers, payload)

	require.Error(t, err)
	assert.Equal(t, gateway.KindAuthenticationError, gateway.KindOf(err))
	assert.Empty(t, store.recorded())
}

func TestProcessWebhook_MissingTransmissionTimeRejected(t *testing.T) {
	g, store := newTestGateway(t, http.NotFoundHandler())
	payload := []byte(`{"id":"WH-1","event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"TXN1"}}`)

	tests := []struct {
		name  string
		value string
	}{
		{"absent header", ""},
		{"unparseable header", "not-a-timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := webhookHeaders(payload, testWebhookSecret)
			headers.Del(HeaderTransmissionTime)
			if tt.value != "" {
				headers.Set(HeaderTransmissionTime, tt.value)
			}

			err := g.ProcessWebhook(context.Background(), headers, payload)

			// Malformed headers are the sender's request error, distinct
			// from a failed verification of well-formed input.
			require.Error(t, err)
			assert.Equal(t, gateway.KindClientError, gateway.KindOf(err))
			assert.Empty(t, store.recorded())
		})
	}
}

func TestProcessWebhook_MalformedPayload(t *testing.T) {
	g, store := newTestGateway(t, http.NotFoundHandler())
	payload := []byte(`{not json`)

	err := g.ProcessWebhook(context.Background(), webhookHeaders(payload, testWebhookSecret), payload)

	require.Error(t, err)
	assert.Equal(t, gateway.KindClientError, gateway.KindOf(err))
	assert.Empty(t, store.recorded())
}

func TestProcessWebhook_UnknownEventIgnored(t *testing.T) {
	g, store := newTestGateway(t, http.NotFoundHandler())
	payload := []byte(`{"id":"WH-9","event_type":"CHECKOUT.ORDER.APPROVED","resource":{"id":"ORDER123"}}`)

	err := g.ProcessWebhook(context.Background(), webhookHeaders(payload, testWebhookSecret), payload)

	require.NoError(t, err)
	assert.Empty(t, store.recorded())
}
