package gateway_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopsphere/payment-gateway/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsPaymentError(t *testing.T) {
	pe := &gateway.PaymentError{
		Kind:       gateway.KindBusinessLogicError,
		Message:    "instrument declined",
		StatusCode: 422,
	}

	wrapped := fmt.Errorf("capturing order: %w", pe)

	got, ok := gateway.AsPaymentError(wrapped)
	require.True(t, ok)
	assert.Same(t, pe, got)

	_, ok = gateway.AsPaymentError(errors.New("plain error"))
	assert.False(t, ok)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, gateway.KindNetworkError, gateway.KindOf(
		gateway.NewPaymentError(gateway.KindNetworkError, "connection refused"),
	))
	assert.Equal(t, gateway.KindUnknownError, gateway.KindOf(errors.New("boom")))
}

func TestPaymentError_Error(t *testing.T) {
	withCode := &gateway.PaymentError{
		Kind:        gateway.KindBusinessLogicError,
		Message:     "declined",
		StatusCode:  422,
		GatewayCode: "INSTRUMENT_DECLINED",
	}
	assert.Contains(t, withCode.Error(), "INSTRUMENT_DECLINED")
	assert.Contains(t, withCode.Error(), "422")

	withoutCode := gateway.NewPaymentError(gateway.KindNetworkError, "timeout")
	assert.Contains(t, withoutCode.Error(), "NETWORK_ERROR")
	assert.Contains(t, withoutCode.Error(), "timeout")
}
