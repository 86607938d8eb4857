package submitter

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"bridge-swap/pkg/sequencer"
	"bridge-swap/pkg/types"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// ERC20 approve function ABI
const erc20ApproveABI = `[{"constant":false,"inputs":[{"name":"_spender","type":"address"},{"name":"_value","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"}]`

// Typical gas cost of an ERC20 approve, used when estimation fails
const approveFallbackGas = uint64(60000)

// SubmitApproval grants the bridge spender an allowance on the source
// token and returns the approval's transaction metadata once the network
// layer has accepted it.
func (e *EVMSubmitter) SubmitApproval(ctx context.Context, req sequencer.ApprovalRequest) (*types.TransactionMeta, error) {
	if req.Approval == nil {
		return nil, fmt.Errorf("approval descriptor is required")
	}
	if !common.IsHexAddress(req.Approval.TokenAddress) {
		return nil, fmt.Errorf("invalid token address: %s", req.Approval.TokenAddress)
	}
	if !common.IsHexAddress(req.Approval.Spender) {
		return nil, fmt.Errorf("invalid spender address: %s", req.Approval.Spender)
	}

	amount, ok := new(big.Int).SetString(req.Approval.Amount, 10)
	if !ok {
		return nil, fmt.Errorf("invalid approval amount: %s", req.Approval.Amount)
	}

	parsedABI, err := abi.JSON(strings.NewReader(erc20ApproveABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}

	data, err := parsedABI.Pack("approve", common.HexToAddress(req.Approval.Spender), amount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack approve data: %w", err)
	}

	tokenAddress := common.HexToAddress(req.Approval.TokenAddress)
	tx, err := e.sendTransaction(ctx, tokenAddress, big.NewInt(0), data, 0, approveFallbackGas)
	if err != nil {
		return nil, err
	}

	e.log.WithField("hash", tx.Hash().Hex()).Debug("Approval transaction broadcast")

	return &types.TransactionMeta{
		ID:          uuid.NewString(),
		Hash:        tx.Hash().Hex(),
		SubmittedAt: time.Now(),
	}, nil
}
