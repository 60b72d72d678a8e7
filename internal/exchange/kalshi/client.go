// Package kalshi handles interactions with the Kalshi trading API.
package kalshi

import (
	"bytes"
	"context"
	"crypto"
	cryptorand "crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	marketsPath   = "/trade-api/v2/markets"
	positionsPath = "/trade-api/v2/portfolio/positions"
	ordersPath    = "/trade-api/v2/portfolio/orders"
)

// Client provides signed access to the Kalshi REST API. Every request
// carries an RSA-PSS signature over timestamp+method+path.
type Client struct {
	baseURL    string
	accessKey  string
	privateKey *rsa.PrivateKey
	httpClient *http.Client
}

// NewClient creates a client from the access key and a PEM private key
// file.
func NewClient(baseURL, accessKey, privateKeyPath string) (*Client, error) {
	key, err := loadPrivateKey(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}
	return &Client{
		baseURL:    baseURL,
		accessKey:  accessKey,
		privateKey: key,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// NewClientWithKey creates a client from an in-memory key. Used by tests.
func NewClientWithKey(baseURL, accessKey string, key *rsa.PrivateKey) *Client {
	return &Client{
		baseURL:    baseURL,
		accessKey:  accessKey,
		privateKey: key,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in %s", path)
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is %T, want *rsa.PrivateKey", parsed)
	}
	return key, nil
}

// sign produces the base64 RSA-PSS signature over ts+method+path. The
// path excludes the query string.
func (c *Client) sign(ts, method, path string) (string, error) {
	digest := sha256.Sum256([]byte(ts + method + path))
	sig, err := rsa.SignPSS(cryptorand.Reader, c.privateKey, crypto.SHA256, digest[:],
		&rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash})
	if err != nil {
		return "", fmt.Errorf("RSA-PSS signing failed: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// do executes one signed request. query may be nil; body, when non-nil,
// is JSON-encoded; out, when non-nil, receives the decoded response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s %s request: %w", method, path, err)
	}

	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	sig, err := c.sign(ts, method, path)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("KALSHI-ACCESS-KEY", c.accessKey)
	req.Header.Set("KALSHI-ACCESS-SIGNATURE", sig)
	req.Header.Set("KALSHI-ACCESS-TIMESTAMP", ts)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s %s response (status %d): %w", method, path, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Code != "" {
			return fmt.Errorf("kalshi API error on %s %s: %s - %s (status %d)",
				method, path, apiErr.Error.Code, apiErr.Error.Message, resp.StatusCode)
		}
		return fmt.Errorf("kalshi API returned status %d for %s %s: %s",
			resp.StatusCode, method, path, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response (status %d, body: %s): %w",
			method, path, resp.StatusCode, string(respBody), err)
	}
	return nil
}

// GetMarkets returns every market in the given event.
func (c *Client) GetMarkets(ctx context.Context, eventTicker string) ([]Market, error) {
	query := url.Values{"event_ticker": {eventTicker}}
	var resp marketsResponse
	if err := c.do(ctx, http.MethodGet, marketsPath, query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Markets, nil
}

// GetPositions returns the portfolio positions in the given event.
func (c *Client) GetPositions(ctx context.Context, eventTicker string) ([]MarketPosition, error) {
	query := url.Values{"event_ticker": {eventTicker}}
	var resp positionsResponse
	if err := c.do(ctx, http.MethodGet, positionsPath, query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.MarketPositions, nil
}

// GetRestingOrders returns the still-active orders across the event's
// markets.
func (c *Client) GetRestingOrders(ctx context.Context, eventTicker string) ([]Order, error) {
	query := url.Values{"event_ticker": {eventTicker}, "status": {"resting"}}
	var resp ordersResponse
	if err := c.do(ctx, http.MethodGet, ordersPath, query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// CreateOrder submits a limit order. A fresh uuid client order id is
// assigned when the request carries none, making retries by the caller
// idempotent at the venue.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if req.ClientOrderID == "" {
		req.ClientOrderID = uuid.NewString()
	}
	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, ordersPath, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

// CancelOrder cancels one resting order by venue order id.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	return c.do(ctx, http.MethodDelete, ordersPath+"/"+orderID, nil, nil, nil)
}
