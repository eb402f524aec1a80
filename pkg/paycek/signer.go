package paycek

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	pkgerrors "github.com/kevin07696/paycek-go/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// Credentials holds the API key pair issued by Paycek.
// The secret never leaves this struct except as digest input.
type Credentials struct {
	APIKey    string
	APISecret string
}

// Validate checks that both halves of the key pair are present
func (c Credentials) Validate() error {
	if c.APIKey == "" {
		return pkgerrors.NewValidationError("api_key", "api key is required")
	}
	if c.APISecret == "" {
		return pkgerrors.NewValidationError("api_secret", "api secret is required")
	}
	return nil
}

// String redacts the secret so credentials are safe to print
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{APIKey: %q, APISecret: [REDACTED]}", c.APIKey)
}

// GoString redacts the secret for %#v
func (c Credentials) GoString() string {
	return c.String()
}

// SignedRequest is everything that went into one MAC, plus the MAC itself
type SignedRequest struct {
	Nonce        string
	Method       string
	EndpointPath string
	ContentType  string
	Body         []byte
	MAC          string
}

// Sign computes the Paycek MAC:
//
//	hex(SHA3-512(0x00 key 0x00 secret 0x00 nonce 0x00 method 0x00 path 0x00 contentType 0x00 body 0x00))
//
// Field order and the zero-byte framing are part of the wire contract.
func Sign(apiKey, apiSecret, nonce, method, endpointPath, contentType string, body []byte) string {
	h := sha3.New512()

	for _, field := range [][]byte{
		[]byte(apiKey),
		[]byte(apiSecret),
		[]byte(nonce),
		[]byte(method),
		[]byte(endpointPath),
		[]byte(contentType),
		body,
	} {
		h.Write([]byte{0})
		h.Write(field)
	}
	h.Write([]byte{0})

	return hex.EncodeToString(h.Sum(nil))
}

// SignRequest signs one request with these credentials
func (c Credentials) SignRequest(nonce, method, endpointPath, contentType string, body []byte) *SignedRequest {
	return &SignedRequest{
		Nonce:        nonce,
		Method:       method,
		EndpointPath: endpointPath,
		ContentType:  contentType,
		Body:         body,
		MAC:          Sign(c.APIKey, c.APISecret, nonce, method, endpointPath, contentType, body),
	}
}

// Verify recomputes the MAC using the nonce received with a callback and compares it
// to receivedMAC in constant time. An empty nonce or MAC never verifies.
func Verify(creds Credentials, receivedNonce, endpointPath string, body []byte, method, contentType, receivedMAC string) bool {
	if receivedNonce == "" || receivedMAC == "" {
		return false
	}

	expected := Sign(creds.APIKey, creds.APISecret, receivedNonce, method, endpointPath, contentType, body)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(receivedMAC)) == 1
}
