package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bridge-swap/pkg/types"
)

func TestGetQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/quote", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		assert.Equal(t, "100", r.URL.Query().Get("amount"))
		assert.Equal(t, "USDC", r.URL.Query().Get("fromToken"))
		assert.Equal(t, "0xRECIPIENT", r.URL.Query().Get("recipient"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"quoteId": "q-1",
			"srcChainId": 1,
			"destChainId": 10,
			"srcAsset": {"chainId": 1, "address": "0x1111111111111111111111111111111111111111", "symbol": "USDC", "decimals": 6},
			"destAsset": {"chainId": 10, "address": "0x2222222222222222222222222222222222222222", "symbol": "DAI", "decimals": 18},
			"srcAmount": "100",
			"destAmount": "99.5",
			"bridgeId": "hop",
			"bridges": ["hop", "across"],
			"refuel": true,
			"approval": {"tokenAddress": "0x1111111111111111111111111111111111111111", "spender": "0x3333333333333333333333333333333333333333", "amount": "100000000"},
			"trade": {"to": "0x3333333333333333333333333333333333333333", "data": "0xdeadbeef", "value": "0"}
		}`))
	}))
	defer server.Close()

	c := NewAggregatorClient(server.URL, "test-key")

	quote, err := c.GetQuote(context.Background(), &types.BridgeRequest{
		Amount:      "100",
		SourceToken: "USDC",
		DestToken:   "DAI",
		Recipient:   "0xRECIPIENT",
	})
	require.NoError(t, err)

	assert.Equal(t, "q-1", quote.QuoteID)
	assert.Equal(t, uint64(1), quote.SrcChainID)
	assert.Equal(t, []string{"hop", "across"}, quote.Bridges)
	require.NotNil(t, quote.Approval)
	assert.Equal(t, "100000000", quote.Approval.Amount)
	assert.True(t, quote.RefuelEnabled())
}

func TestGetQuoteRequiresRecipient(t *testing.T) {
	c := NewAggregatorClient("http://unused", "test-key")

	_, err := c.GetQuote(context.Background(), &types.BridgeRequest{Amount: "1"})
	assert.Error(t, err)
}

func TestGetQuoteAPIErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "amount below bridge minimum"}`))
	}))
	defer server.Close()

	c := NewAggregatorClient(server.URL, "test-key")

	_, err := c.GetQuote(context.Background(), &types.BridgeRequest{
		Amount:    "0.000001",
		Recipient: "0xRECIPIENT",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount below bridge minimum")
	assert.Contains(t, err.Error(), "400")
}

func TestGetTxStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/status", r.URL.Path)
		assert.Equal(t, "0xAB", r.URL.Query().Get("srcTxHash"))
		assert.Equal(t, "hop", r.URL.Query().Get("bridge"))
		assert.Equal(t, "true", r.URL.Query().Get("refuel"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "COMPLETE",
			"srcTx": {"hash": "0xAB", "chainId": 1},
			"destTx": {"hash": "0xCD", "chainId": 10, "amount": "99.5"}
		}`))
	}))
	defer server.Close()

	c := NewAggregatorClient(server.URL, "test-key")

	status, err := c.GetTxStatus(context.Background(), &types.StatusRequest{
		BridgeID:    "hop",
		SrcTxHash:   "0xAB",
		Bridge:      "hop",
		SrcChainID:  1,
		DestChainID: 10,
		Refuel:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, types.StatusComplete, status.Status)
	require.NotNil(t, status.DestTx)
	assert.Equal(t, "0xCD", status.DestTx.Hash)
	assert.True(t, status.IsTerminal())
}
