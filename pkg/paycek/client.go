// Package paycek is a client for the Paycek payment processing API.
//
// Every request is a JSON POST signed with a SHA3-512 MAC over the API key pair, a
// millisecond nonce, the HTTP method, endpoint path, content type and the exact body
// bytes. The same MAC scheme authenticates callbacks Paycek sends back to the merchant.
package paycek

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/kevin07696/paycek-go/pkg/errors"
	pkghttp "github.com/kevin07696/paycek-go/pkg/http"
	"github.com/kevin07696/paycek-go/pkg/ports"
)

const (
	// DefaultHost is the production Paycek host
	DefaultHost = "https://paycek.io"

	// APIPrefix is prepended to every endpoint name
	APIPrefix = "/processing/api"

	// ContentTypeJSON is the only content type the API accepts
	ContentTypeJSON = "application/json"

	// DefaultTimeout bounds a single API call when the default HTTP client is used
	DefaultTimeout = 30 * time.Second
)

// Authentication headers. http.Header canonicalizes them, so lookups are case-insensitive.
const (
	HeaderKey   = "ApiKeyAuth-Key"
	HeaderNonce = "ApiKeyAuth-Nonce"
	HeaderMAC   = "ApiKeyAuth-MAC"
)

// Config holds what a Client needs besides its collaborators
type Config struct {
	Credentials Credentials
	Host        string // Scheme and host without a trailing slash (default: DefaultHost)
}

// Client performs signed calls against the Paycek API.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	creds      Credentials
	host       string
	httpClient ports.HTTPClient
	logger     ports.Logger
	metrics    ports.Metrics
	now        func() time.Time
}

// NewClient creates a new Paycek client with dependency injection.
// Nil collaborators fall back to the pooled default HTTP client, a no-op logger and no-op metrics.
func NewClient(cfg Config, httpClient ports.HTTPClient, logger ports.Logger, metrics ports.Metrics) (*Client, error) {
	if err := cfg.Credentials.Validate(); err != nil {
		return nil, err
	}

	host := strings.TrimRight(cfg.Host, "/")
	if host == "" {
		host = DefaultHost
	}
	if httpClient == nil {
		httpClient = pkghttp.NewHTTPClient(pkghttp.PaycekClientConfig(), DefaultTimeout)
	}
	if logger == nil {
		logger = ports.NopLogger{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}

	return &Client{
		creds:      cfg.Credentials,
		host:       host,
		httpClient: httpClient,
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}, nil
}

// NewClientWithDefaults creates a client for the production host with the default HTTP client
func NewClientWithDefaults(creds Credentials, logger ports.Logger) (*Client, error) {
	return NewClient(Config{Credentials: creds}, nil, logger, nil)
}

// Call signs params as a JSON body, POSTs it to APIPrefix/endpoint and decodes the
// response object. HTTP status codes are not interpreted; business errors are fields
// of the returned Response.
func (c *Client) Call(ctx context.Context, endpoint string, params map[string]any) (Response, error) {
	path := APIPrefix + "/" + strings.TrimLeft(endpoint, "/")

	if params == nil {
		params = map[string]any{}
	}

	// encoding/json sorts map keys, so the body is canonical for a given params map
	payloadBytes, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", path, err)
	}

	nonce := strconv.FormatInt(c.now().UnixMilli(), 10)
	signed := c.creds.SignRequest(nonce, http.MethodPost, path, ContentTypeJSON, payloadBytes)

	httpReq, err := http.NewRequestWithContext(ctx, signed.Method, c.host+path, bytes.NewReader(signed.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", signed.ContentType)
	httpReq.Header.Set(HeaderKey, c.creds.APIKey)
	httpReq.Header.Set(HeaderNonce, signed.Nonce)
	httpReq.Header.Set(HeaderMAC, signed.MAC)

	requestID := uuid.NewString()
	c.logger.Debug("calling Paycek API",
		ports.String("endpoint", path),
		ports.String("nonce", nonce),
		ports.String("request_id", requestID),
	)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.ObserveCall(path, ports.OutcomeTransportError, 0, time.Since(start))
		c.logger.Error("Paycek API request failed",
			ports.String("endpoint", path),
			ports.String("request_id", requestID),
			ports.Err(err),
		)
		return nil, pkgerrors.NewTransportError(path, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.metrics.ObserveCall(path, ports.OutcomeTransportError, httpResp.StatusCode, time.Since(start))
		c.logger.Error("failed to read Paycek API response",
			ports.String("endpoint", path),
			ports.String("request_id", requestID),
			ports.Int("status", httpResp.StatusCode),
			ports.Err(err),
		)
		return nil, pkgerrors.NewTransportError(path, fmt.Errorf("failed to read response body: %w", err))
	}
	elapsed := time.Since(start)

	resp, err := decodeResponse(body)
	if err != nil {
		c.metrics.ObserveCall(path, ports.OutcomeDecodeError, httpResp.StatusCode, elapsed)
		c.logger.Error("Paycek API returned an undecodable body",
			ports.String("endpoint", path),
			ports.String("request_id", requestID),
			ports.Int("status", httpResp.StatusCode),
			ports.Err(err),
		)
		return nil, pkgerrors.NewDecodeError(path, httpResp.StatusCode, body, err)
	}

	c.metrics.ObserveCall(path, ports.OutcomeOK, httpResp.StatusCode, elapsed)
	c.logger.Info("Paycek API call completed",
		ports.String("endpoint", path),
		ports.String("request_id", requestID),
		ports.Int("status", httpResp.StatusCode),
		ports.Duration("elapsed", elapsed),
	)

	return resp, nil
}
