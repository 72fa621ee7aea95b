// Package webhook provides stateless verification of provider-initiated
// webhook callbacks: an HMAC signature check plus a timestamp freshness
// check to reject replayed events.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const (
	// DefaultSignaturePrefix precedes the hex digest in the signature
	// header, GitHub-style.
	DefaultSignaturePrefix = "sha256="

	// DefaultTimestampTolerance is how far a webhook timestamp may drift
	// from the current time before the event is treated as a replay.
	DefaultTimestampTolerance = 5 * time.Minute
)

// Options tune Verify. Zero values fall back to the defaults above.
type Options struct {
	SignaturePrefix    string
	TimestampTolerance time.Duration
}

// VerifySignature reports whether signature equals prefix + hex(HMAC-SHA256
// of payload under secret). The comparison is constant-time; any single-byte
// mutation of payload or signature fails verification.
func VerifySignature(payload []byte, signature, secret, prefix string) bool {
	if secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := prefix + hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expected))
}

// VerifyTimestamp reports whether ts is within tolerance of now, in either
// direction.
func VerifyTimestamp(ts time.Time, now time.Time, tolerance time.Duration) bool {
	diff := now.Sub(ts)
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

// Verify combines the signature and timestamp checks. Both must pass.
func Verify(payload []byte, signature, secret string, ts time.Time, opts Options) bool {
	prefix := opts.SignaturePrefix
	if prefix == "" {
		prefix = DefaultSignaturePrefix
	}
	tolerance := opts.TimestampTolerance
	if tolerance == 0 {
		tolerance = DefaultTimestampTolerance
	}

	if !VerifySignature(payload, signature, secret, prefix) {
		return false
	}
	return VerifyTimestamp(ts, time.Now(), tolerance)
}
