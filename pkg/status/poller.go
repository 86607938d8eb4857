package status

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"bridge-swap/pkg/sequencer"
	"bridge-swap/pkg/types"
)

// StatusClient fetches the aggregator's view of a bridge transaction
type StatusClient interface {
	GetTxStatus(ctx context.Context, req *types.StatusRequest) (*types.StatusResponse, error)
}

// Recorder receives status updates as polling progresses
type Recorder interface {
	UpdateStatus(quoteID string, status *types.StatusResponse) error
}

// Poller watches submitted bridge transactions until the destination
// chain reports a terminal state. Each BeginPolling call runs in its own
// goroutine; the caller never waits on it, so every failure is handled
// (logged) here.
type Poller struct {
	client      StatusClient
	recorder    Recorder
	interval    time.Duration
	maxAttempts int
	log         *logrus.Entry
}

// NewPoller creates a poller checking every interval, giving up after
// maxAttempts checks
func NewPoller(client StatusClient, recorder Recorder, interval time.Duration, maxAttempts int, logger *logrus.Entry) *Poller {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Poller{
		client:      client,
		recorder:    recorder,
		interval:    interval,
		maxAttempts: maxAttempts,
		log:         logger,
	}
}

// BeginPolling starts watching a bridge transaction in the background
func (p *Poller) BeginPolling(args sequencer.PollArgs) {
	go p.poll(args)
}

// poll checks the transaction status until it reaches a terminal state
// or the attempt cap is hit
func (p *Poller) poll(args sequencer.PollArgs) {
	log := p.log.WithFields(logrus.Fields{
		"quote":    args.Quote.QuoteID,
		"srcTx":    args.StatusRequest.SrcTxHash,
		"bridge":   args.StatusRequest.Bridge,
		"slippage": args.SlippagePercentage,
	})
	log.WithField("startTime", args.StartTime).Info("Started status polling")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for attempts := 0; attempts < p.maxAttempts; attempts++ {
		<-ticker.C

		status, err := p.client.GetTxStatus(context.Background(), args.StatusRequest)
		if err != nil {
			// Transient failure, retry on the next tick
			log.WithError(err).Debug("Status check failed")
			continue
		}

		if err := p.recorder.UpdateStatus(args.Quote.QuoteID, status); err != nil {
			log.WithError(err).Warn("Failed to record status update")
		}

		if status.IsTerminal() {
			if status.Status == types.StatusComplete {
				log.WithField("status", status.Status).Info("Bridge completed")
			} else {
				log.WithField("status", status.Status).Warn("Bridge did not complete")
			}
			return
		}
	}

	log.Warn("Gave up polling before the bridge reached a terminal state")
}
