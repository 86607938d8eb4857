package submitter

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"bridge-swap/config"
	"bridge-swap/pkg/types"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

// TxRecorder persists submitted bridge transactions so they show up in
// the activity feed. Recording failures never fail a submission; the
// transaction is already on the wire by then.
type TxRecorder interface {
	RecordSubmission(quote *types.QuoteResponse, approvalTxID string, meta *types.TransactionMeta) error
}

// EVMSubmitter signs and broadcasts transactions on one EVM network. It
// implements both the approval and the bridge submitter capabilities.
type EVMSubmitter struct {
	networkName string
	network     config.EVMNetwork
	client      *ethclient.Client
	privateKey  *ecdsa.PrivateKey
	from        common.Address
	records     TxRecorder
	log         *logrus.Entry
}

// New creates an EVM submitter for a specific network. records may be
// nil to disable activity recording.
func New(networkName string, network config.EVMNetwork, records TxRecorder, logger *logrus.Entry) (*EVMSubmitter, error) {
	// Validate configuration
	if network.RPCUrl == "" {
		return nil, fmt.Errorf("RPC URL not configured for network %s", networkName)
	}
	if network.PrivateKey == "" {
		return nil, fmt.Errorf("private key not configured for network %s", networkName)
	}

	// Connect to the RPC endpoint
	client, err := ethclient.Dial(network.RPCUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	// Parse private key
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(network.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	publicKey, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("failed to derive public key")
	}

	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &EVMSubmitter{
		networkName: networkName,
		network:     network,
		client:      client,
		privateKey:  privateKey,
		from:        crypto.PubkeyToAddress(*publicKey),
		records:     records,
		log:         logger.WithField("network", networkName),
	}, nil
}

// sendTransaction builds, signs and broadcasts a legacy transaction to
// the given address. gasOverride takes precedence over the configured
// limit; fallbackGas is used when estimation fails.
func (e *EVMSubmitter) sendTransaction(ctx context.Context, to common.Address, value *big.Int, data []byte, gasOverride, fallbackGas uint64) (*ethtypes.Transaction, error) {
	nonce, err := e.client.PendingNonceAt(ctx, e.from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := e.getGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit := fallbackGas
	switch {
	case gasOverride > 0:
		gasLimit = gasOverride
	case e.network.GasLimit != nil:
		gasLimit = *e.network.GasLimit
	default:
		msg := ethereum.CallMsg{
			From:  e.from,
			To:    &to,
			Value: value,
			Data:  data,
		}
		estimatedGas, err := e.client.EstimateGas(ctx, msg)
		if err == nil {
			gasLimit = estimatedGas * 120 / 100 // Add 20% buffer
		}
	}

	tx := ethtypes.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)

	chainID := big.NewInt(e.network.ChainID)
	signedTx, err := ethtypes.SignTx(tx, ethtypes.NewEIP155Signer(chainID), e.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := e.client.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	return signedTx, nil
}

// getGasPrice returns the gas price to use for transactions
func (e *EVMSubmitter) getGasPrice(ctx context.Context) (*big.Int, error) {
	// Use configured gas price if available
	if e.network.GasPrice != nil {
		return big.NewInt(*e.network.GasPrice), nil
	}

	// Otherwise, get current gas price from network
	gasPrice, err := e.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	return gasPrice, nil
}

// From returns the submitter's sending address
func (e *EVMSubmitter) From() common.Address {
	return e.from
}

// Close closes the client connection
func (e *EVMSubmitter) Close() {
	if e.client != nil {
		e.client.Close()
	}
}
