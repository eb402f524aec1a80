package paycek

import (
	"bytes"
	"io"
	"net/http"

	"github.com/kevin07696/paycek-go/pkg/ports"
)

// MaxCallbackBodyBytes caps how much of a callback body the middleware reads
const MaxCallbackBodyBytes = 1 << 20

// CheckHeaders reports whether a callback carries a valid MAC for these credentials.
// The nonce and MAC are taken from h; a missing header fails closed.
// endpoint is the path the callback was delivered to and body the exact bytes received.
func (c *Client) CheckHeaders(h http.Header, endpoint string, body []byte, method, contentType string) bool {
	ok := Verify(c.creds, h.Get(HeaderNonce), endpoint, body, method, contentType, h.Get(HeaderMAC))
	c.metrics.ObserveCallback(ok)
	return ok
}

// CheckHeadersGET verifies a body-less callback: method GET, empty content type
func (c *Client) CheckHeadersGET(h http.Header, endpoint string, body []byte) bool {
	return c.CheckHeaders(h, endpoint, body, http.MethodGet, "")
}

// CallbackMiddleware authenticates Paycek callbacks before they reach next.
// Unauthenticated requests are answered with 401. The endpoint is the request URI
// (path plus query) and the body is restored for next.
func (c *Client) CallbackMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, MaxCallbackBodyBytes+1))
		if err != nil {
			c.logger.Error("failed to read callback body",
				ports.String("path", r.URL.Path),
				ports.Err(err),
			)
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		if len(body) > MaxCallbackBodyBytes {
			c.logger.Warn("callback body too large",
				ports.String("path", r.URL.Path),
			)
			http.Error(w, "Request too large", http.StatusRequestEntityTooLarge)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		endpoint := r.URL.RequestURI()
		if !c.CheckHeaders(r.Header, endpoint, body, r.Method, r.Header.Get("Content-Type")) {
			c.logger.Warn("Paycek callback verification failed",
				ports.String("path", endpoint),
				ports.String("method", r.Method),
			)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		c.logger.Info("Paycek callback authenticated",
			ports.String("path", endpoint),
			ports.String("method", r.Method),
		)
		next.ServeHTTP(w, r)
	})
}
