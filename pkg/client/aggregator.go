package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bridge-swap/pkg/types"
)

// AggregatorClient talks to the bridge aggregator's REST API
type AggregatorClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewAggregatorClient creates a new aggregator API client
func NewAggregatorClient(baseURL, apiKey string) *AggregatorClient {
	return &AggregatorClient{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// GetQuote requests a bridge quote for the given request
func (c *AggregatorClient) GetQuote(ctx context.Context, req *types.BridgeRequest) (*types.QuoteResponse, error) {
	if req.Recipient == "" {
		return nil, fmt.Errorf("recipient address is required. Use --recipient flag to specify where you want to receive the tokens")
	}

	params := url.Values{}
	params.Set("amount", req.Amount)
	params.Set("fromToken", req.SourceToken)
	params.Set("toToken", req.DestToken)
	params.Set("sender", req.Sender)
	params.Set("recipient", req.Recipient)
	if req.SourceChain != "" {
		params.Set("fromChain", req.SourceChain)
	}
	if req.DestChain != "" {
		params.Set("toChain", req.DestChain)
	}

	var quote types.QuoteResponse
	if err := c.get(ctx, "/v1/quote", params, &quote); err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	if quote.QuoteID == "" {
		return nil, fmt.Errorf("empty quote response")
	}

	return &quote, nil
}

// GetTxStatus checks the destination-chain progress of a submitted
// bridge transaction
func (c *AggregatorClient) GetTxStatus(ctx context.Context, req *types.StatusRequest) (*types.StatusResponse, error) {
	params := url.Values{}
	params.Set("bridgeId", req.BridgeID)
	params.Set("srcTxHash", req.SrcTxHash)
	params.Set("bridge", req.Bridge)
	params.Set("srcChainId", strconv.FormatUint(req.SrcChainID, 10))
	params.Set("destChainId", strconv.FormatUint(req.DestChainID, 10))
	params.Set("refuel", strconv.FormatBool(req.Refuel))

	var status types.StatusResponse
	if err := c.get(ctx, "/v1/status", params, &status); err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	return &status, nil
}

// get performs an authenticated GET request and decodes the JSON response
func (c *AggregatorClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	// Check for successful status codes (200-299)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// apiError extracts the actual error message from a failed response body
func apiError(statusCode int, body []byte) error {
	if len(body) > 0 {
		// Try to parse as a generic error response
		var errorResp map[string]interface{}
		if jsonErr := json.Unmarshal(body, &errorResp); jsonErr == nil {
			if message, ok := errorResp["message"].(string); ok {
				return fmt.Errorf("API error (status %d): %s", statusCode, message)
			}
			if errors, ok := errorResp["errors"]; ok {
				return fmt.Errorf("API error (status %d): %v", statusCode, errors)
			}
		}
		// If we can't parse it, show the raw body
		return fmt.Errorf("API error (status %d): %s", statusCode, string(body))
	}
	return fmt.Errorf("API returned status code %d", statusCode)
}
