package sequencer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"bridge-swap/pkg/types"
)

const (
	// TabActivity is the home tab the user lands on after a submission
	TabActivity = "activity"

	// DefaultRoute is the route the user is sent to once the bridge
	// transaction has been handed off
	DefaultRoute = "/"
)

// ApprovalRequest asks the approval submitter for an ERC-20 approval
// covering the bridge spender
type ApprovalRequest struct {
	Approval *types.ApprovalDescriptor
	Quote    *types.QuoteResponse
}

// BridgeTxRequest asks the bridge submitter for the bridge transaction
// itself. ApprovalTxID is empty when no approval preceded it.
type BridgeTxRequest struct {
	Quote        *types.QuoteResponse
	ApprovalTxID string
}

// PollArgs carries everything the status poller needs to begin watching
// a submitted bridge transaction
type PollArgs struct {
	StatusRequest      *types.StatusRequest
	Quote              *types.QuoteResponse
	SlippagePercentage float64
	StartTime          time.Time
}

// ApprovalSubmitter turns an approval descriptor into an on-chain
// approval transaction
type ApprovalSubmitter interface {
	SubmitApproval(ctx context.Context, req ApprovalRequest) (*types.TransactionMeta, error)
}

// BridgeSubmitter turns a quote into an on-chain bridge transaction
type BridgeSubmitter interface {
	SubmitBridgeTx(ctx context.Context, req BridgeTxRequest) (*types.TransactionMeta, error)
}

// StatusPoller begins asynchronous polling for the bridge transaction's
// destination-chain completion. BeginPolling must not block; failures
// are the poller's own to handle.
type StatusPoller interface {
	BeginPolling(args PollArgs)
}

// TokenRegistrar records newly-seen tokens so they show up in the user's
// token list. The two operations are intentionally distinct: source
// registration is fire-and-forget, destination registration is awaited
// so the received token is visibly listed before navigation.
type TokenRegistrar interface {
	RegisterSourceToken(quote *types.QuoteResponse)
	RegisterDestToken(ctx context.Context, quote *types.QuoteResponse) error
}

// HomeView is the slice of UI state the sequencer touches after a
// successful submission
type HomeView interface {
	SetActiveTab(tab string) error
	Navigate(route string)
}

// Sequencer drives a bridge quote through approval, submission, status
// polling and token registration, then lands the user on the activity
// view. It owns no state of its own; every step delegates to a
// collaborator.
type Sequencer struct {
	approvals ApprovalSubmitter
	bridge    BridgeSubmitter
	poller    StatusPoller
	tokens    TokenRegistrar
	home      HomeView

	// slippage reported when polling starts. Stays at the zero default
	// until per-quote slippage settings are wired through.
	slippage float64

	log *logrus.Entry
}

// New creates a sequencer wired to the given collaborators
func New(approvals ApprovalSubmitter, bridge BridgeSubmitter, poller StatusPoller, tokens TokenRegistrar, home HomeView, slippage float64, logger *logrus.Entry) *Sequencer {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Sequencer{
		approvals: approvals,
		bridge:    bridge,
		poller:    poller,
		tokens:    tokens,
		home:      home,
		slippage:  slippage,
		log:       logger,
	}
}

// Submit runs the full submission sequence for a quote. Any error from
// the approval, the bridge transaction, the destination-token
// registration or the final tab switch aborts the sequence and is
// returned as-is; nothing is retried and no partial state is cleaned up.
func (s *Sequencer) Submit(ctx context.Context, quote *types.QuoteResponse) error {
	// Approval first, if the source asset needs one. Its transaction id
	// flows into the bridge submission so the two can be correlated.
	var approvalTxID string
	if quote.Approval != nil {
		approvalMeta, err := s.approvals.SubmitApproval(ctx, ApprovalRequest{
			Approval: quote.Approval,
			Quote:    quote,
		})
		if err != nil {
			return fmt.Errorf("approval submission failed: %w", err)
		}
		approvalTxID = approvalMeta.ID

		s.log.WithFields(logrus.Fields{
			"quote":    quote.QuoteID,
			"approval": approvalMeta.ID,
			"hash":     approvalMeta.Hash,
		}).Debug("Approval transaction submitted")
	}

	bridgeMeta, err := s.bridge.SubmitBridgeTx(ctx, BridgeTxRequest{
		Quote:        quote,
		ApprovalTxID: approvalTxID,
	})
	if err != nil {
		return fmt.Errorf("bridge submission failed: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"quote": quote.QuoteID,
		"tx":    bridgeMeta.ID,
		"hash":  bridgeMeta.Hash,
	}).Info("Bridge transaction submitted")

	// Polling only starts once the transaction has an observable hash.
	// The kickoff is fire-and-forget; the sequence does not wait for the
	// destination chain.
	if bridgeMeta.Hash != "" {
		statusReq, err := types.NewStatusRequest(quote, bridgeMeta.Hash)
		if err != nil {
			return err
		}
		s.poller.BeginPolling(PollArgs{
			StatusRequest:      statusReq,
			Quote:              quote,
			SlippagePercentage: s.slippage,
			StartTime:          bridgeMeta.SubmittedAt,
		})
	}

	if !quote.SrcAsset.IsNative() {
		s.tokens.RegisterSourceToken(quote)
	}

	// The destination token is awaited, unlike the source token, so the
	// received asset is already listed when the activity view appears.
	if !quote.DestAsset.IsNative() {
		if err := s.tokens.RegisterDestToken(ctx, quote); err != nil {
			return fmt.Errorf("destination token registration failed: %w", err)
		}
	}

	if err := s.home.SetActiveTab(TabActivity); err != nil {
		return fmt.Errorf("failed to switch to activity tab: %w", err)
	}
	s.home.Navigate(DefaultRoute)

	return nil
}
