package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const supportedAlgorithm = "sha256"

// VerifySignature checks signatureHeader against HMAC-SHA256(secret, rawBody).
//
// The header is either "sha256=<hex>" or a bare hex digest. An empty secret
// disables verification.
func VerifySignature(rawBody []byte, signatureHeader, secret string) bool {
	if secret == "" {
		return true
	}

	signatureHeader = strings.TrimSpace(signatureHeader)
	if signatureHeader == "" {
		return false
	}

	received := signatureHeader
	if algorithm, hash, found := strings.Cut(signatureHeader, "="); found {
		if !strings.EqualFold(strings.TrimSpace(algorithm), supportedAlgorithm) {
			return false
		}
		received = strings.TrimSpace(hash)
	}

	got, err := hex.DecodeString(received)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return hmac.Equal(got, mac.Sum(nil))
}

// Sign returns the "sha256=<hex>" header for rawBody.
func Sign(rawBody []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return supportedAlgorithm + "=" + hex.EncodeToString(mac.Sum(nil))
}
