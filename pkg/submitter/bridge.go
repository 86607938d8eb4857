package submitter

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"bridge-swap/pkg/sequencer"
	"bridge-swap/pkg/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// Fallback gas for bridge calls when the aggregator supplies no limit
// and estimation fails
const bridgeFallbackGas = uint64(400000)

// SubmitBridgeTx broadcasts the aggregator-encoded bridge call for a
// quote. The approval transaction id is carried for correlation only;
// ordering after the approval is guaranteed by the account nonce.
func (e *EVMSubmitter) SubmitBridgeTx(ctx context.Context, req sequencer.BridgeTxRequest) (*types.TransactionMeta, error) {
	trade := req.Quote.Trade
	if !common.IsHexAddress(trade.To) {
		return nil, fmt.Errorf("invalid bridge contract address: %s", trade.To)
	}

	value := big.NewInt(0)
	if trade.Value != "" {
		parsed, ok := new(big.Int).SetString(trade.Value, 10)
		if !ok {
			return nil, fmt.Errorf("invalid trade value: %s", trade.Value)
		}
		value = parsed
	}

	// Native-asset bridges carry the full amount as call value; make
	// sure the account can cover it before broadcasting.
	if value.Sign() > 0 {
		balance, err := e.client.BalanceAt(ctx, e.from, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to get balance: %w", err)
		}
		if balance.Cmp(value) < 0 {
			return nil, fmt.Errorf("insufficient balance: have %s wei, need %s wei", balance.String(), value.String())
		}
	}

	data := common.FromHex(trade.Data)
	to := common.HexToAddress(trade.To)

	tx, err := e.sendTransaction(ctx, to, value, data, trade.GasLimit, bridgeFallbackGas)
	if err != nil {
		return nil, err
	}

	meta := &types.TransactionMeta{
		ID:          uuid.NewString(),
		Hash:        tx.Hash().Hex(),
		SubmittedAt: time.Now(),
	}

	if e.records != nil {
		if err := e.records.RecordSubmission(req.Quote, req.ApprovalTxID, meta); err != nil {
			e.log.WithError(err).Warn("Failed to record bridge submission")
		}
	}

	return meta, nil
}
