package types

import (
	"fmt"
	"strings"
	"time"
)

// NativeAssetSentinel is the well-known zero address denoting a chain's
// native gas asset rather than an ERC-20 token.
const NativeAssetSentinel = "0x0000000000000000000000000000000000000000"

// BridgeRequest represents a user's bridge command
type BridgeRequest struct {
	Amount      string
	SourceToken string
	DestToken   string
	SourceChain string
	DestChain   string
	Sender      string
	Recipient   string
}

// AssetDescriptor identifies a token on a specific chain
type AssetDescriptor struct {
	ChainID  uint64 `json:"chainId"`
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// IsNative returns true if the asset is the chain's native gas asset
func (a AssetDescriptor) IsNative() bool {
	return strings.EqualFold(a.Address, NativeAssetSentinel)
}

// ApprovalDescriptor holds the parameters for the ERC-20 approval that
// must precede the bridge call when the source asset is a token
type ApprovalDescriptor struct {
	TokenAddress string `json:"tokenAddress"`
	Spender      string `json:"spender"`
	Amount       string `json:"amount"` // smallest-unit integer string
}

// TradeParams is the aggregator-encoded bridge call
type TradeParams struct {
	To       string `json:"to"`
	Data     string `json:"data"`
	Value    string `json:"value"` // wei, integer string; "0" for token sources
	GasLimit uint64 `json:"gasLimit,omitempty"`
}

// QuoteResponse describes a requested cross-chain bridge as returned by
// the aggregator. Treated as immutable once received.
type QuoteResponse struct {
	QuoteID     string              `json:"quoteId"`
	SrcChainID  uint64              `json:"srcChainId"`
	DestChainID uint64              `json:"destChainId"`
	SrcAsset    AssetDescriptor     `json:"srcAsset"`
	DestAsset   AssetDescriptor     `json:"destAsset"`
	SrcAmount   string              `json:"srcAmount"`
	DestAmount  string              `json:"destAmount"`
	BridgeID    string              `json:"bridgeId"`
	Bridges     []string            `json:"bridges"` // candidate bridge names, preferred first
	Refuel      *bool               `json:"refuel,omitempty"`
	Approval    *ApprovalDescriptor `json:"approval,omitempty"`
	Trade       TradeParams         `json:"trade"`
}

// RefuelEnabled coerces the optional refuel flag to a strict boolean
func (q *QuoteResponse) RefuelEnabled() bool {
	return q.Refuel != nil && *q.Refuel
}

// TransactionMeta is the result of submitting any transaction. Hash stays
// empty until the transaction has been broadcast.
type TransactionMeta struct {
	ID          string    `json:"id"`
	Hash        string    `json:"hash,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// StatusRequest is the immutable record used to begin polling for a
// bridge transaction's destination-chain completion
type StatusRequest struct {
	BridgeID    string         `json:"bridgeId"`
	SrcTxHash   string         `json:"srcTxHash"`
	Bridge      string         `json:"bridge"` // first candidate bridge name
	SrcChainID  uint64         `json:"srcChainId"`
	DestChainID uint64         `json:"destChainId"`
	Quote       *QuoteResponse `json:"quote"`
	Refuel      bool           `json:"refuel"`
}

// NewStatusRequest builds a StatusRequest from a quote and the bridge
// transaction's source-chain hash. Polling must never start for a
// transaction without an observable hash, so an empty hash is an error.
func NewStatusRequest(quote *QuoteResponse, srcTxHash string) (*StatusRequest, error) {
	if srcTxHash == "" {
		return nil, fmt.Errorf("cannot build status request without a source transaction hash")
	}

	bridge := ""
	if len(quote.Bridges) > 0 {
		bridge = quote.Bridges[0]
	}

	return &StatusRequest{
		BridgeID:    quote.BridgeID,
		SrcTxHash:   srcTxHash,
		Bridge:      bridge,
		SrcChainID:  quote.SrcChainID,
		DestChainID: quote.DestChainID,
		Quote:       quote,
		Refuel:      quote.RefuelEnabled(),
	}, nil
}

// Terminal status values reported by the aggregator's status endpoint
const (
	StatusPending  = "PENDING"
	StatusComplete = "COMPLETE"
	StatusFailed   = "FAILED"
	StatusRefunded = "REFUNDED"
)

// StatusTx describes one leg of a bridge as seen by the status endpoint
type StatusTx struct {
	Hash    string `json:"hash"`
	ChainID uint64 `json:"chainId"`
	Amount  string `json:"amount,omitempty"`
}

// StatusResponse is the aggregator's view of a bridge transaction's progress
type StatusResponse struct {
	Status string    `json:"status"`
	SrcTx  *StatusTx `json:"srcTx,omitempty"`
	DestTx *StatusTx `json:"destTx,omitempty"`
}

// IsTerminal returns true once the bridge can no longer change state
func (s *StatusResponse) IsTerminal() bool {
	switch s.Status {
	case StatusComplete, StatusFailed, StatusRefunded:
		return true
	default:
		return false
	}
}
