package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"bridge-swap/config"
	"bridge-swap/pkg/activity"
	"bridge-swap/pkg/client"
	"bridge-swap/pkg/parser"
	"bridge-swap/pkg/sequencer"
	"bridge-swap/pkg/status"
	"bridge-swap/pkg/submitter"
	"bridge-swap/pkg/tokens"
	"bridge-swap/pkg/types"
)

var (
	fromChain     string
	toChain       string
	senderAddr    string
	recipientAddr string
	noConfirm     bool
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge <amount> <source-token> to <dest-token>",
	Short: "Bridge tokens to another chain",
	Long: `Bridge tokens across EVM chains through the bridge aggregator.

IMPORTANT:
  - You MUST specify --recipient (where you'll receive tokens)
  - The source chain must be configured with an RPC URL and private key
  - Token sources get an ERC-20 approval submitted automatically first

Examples:
  # Bridge ETH from mainnet to Arbitrum
  bridge-swap bridge 0.5 ETH to ETH --from-chain ethereum --to-chain arbitrum --recipient 0x123...

  # Bridge USDC, approval handled automatically
  bridge-swap bridge 100 USDC to USDC --from-chain ethereum --to-chain polygon --recipient 0x123...

  # Skip the confirmation prompt
  bridge-swap bridge 100 USDC to DAI --from-chain ethereum --to-chain optimism --recipient 0x123... --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runBridge,
}

func init() {
	rootCmd.AddCommand(bridgeCmd)

	bridgeCmd.Flags().StringVar(&fromChain, "from-chain", "", "Source blockchain (optional)")
	bridgeCmd.Flags().StringVar(&toChain, "to-chain", "", "Destination blockchain (optional)")
	bridgeCmd.Flags().StringVar(&senderAddr, "sender", "", "Sender address on the source chain (optional, defaults to the configured key)")
	bridgeCmd.Flags().StringVar(&recipientAddr, "recipient", "", "Recipient address (REQUIRED - where you'll receive tokens)")
	bridgeCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runBridge(cmd *cobra.Command, args []string) {
	// Parse the command
	commandStr := strings.Join(args, " ")
	bridgeReq, err := parser.ParseBridgeCommand(commandStr)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// Set chain, sender, and recipient if provided via flags
	if fromChain != "" {
		bridgeReq.SourceChain = fromChain
	}
	if toChain != "" {
		bridgeReq.DestChain = toChain
	}
	if senderAddr != "" {
		bridgeReq.Sender = senderAddr
	}
	if recipientAddr != "" {
		bridgeReq.Recipient = recipientAddr
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	logger := newLogger(verbose)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// Create client
	apiClient := client.NewAggregatorClient(cfg.BaseURL, cfg.APIKey)

	// Get quote with spinner
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching bridge quote..."
		s.Start()
	}

	quote, err := apiClient.GetQuote(context.Background(), bridgeReq)
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		if verbose {
			fmt.Printf("\nDebug: Error getting quote: %v\n", err)
			fmt.Printf("Debug: This might be due to:\n")
			fmt.Printf("  1. Invalid API key\n")
			fmt.Printf("  2. Unsupported token or chain pair\n")
			fmt.Printf("  3. Amount below the bridge minimum\n")
		}
		printError(err)
		os.Exit(1)
	}

	if verbose {
		fmt.Printf("\nQuote received:\n")
		quoteJSON, _ := json.MarshalIndent(quote, "", "  ")
		fmt.Println(string(quoteJSON))
	}

	// Display quote
	if jsonOutput {
		output := map[string]interface{}{
			"quote_id":       quote.QuoteID,
			"src_amount":     quote.SrcAmount,
			"src_token":      quote.SrcAsset.Symbol,
			"dest_amount":    quote.DestAmount,
			"dest_token":     quote.DestAsset.Symbol,
			"bridge":         quote.BridgeID,
			"needs_approval": quote.Approval != nil,
			"status":         "quote_generated",
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayQuote(quote, bridgeReq)
	}

	// Ask for confirmation
	if !noConfirm && !jsonOutput {
		fmt.Print("Submit this bridge transaction? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("\nBridge cancelled.")
			return
		}
	}

	if err := submitQuote(cfg, apiClient, quote, logger, jsonOutput); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// submitQuote wires the collaborators together and runs the submission
// sequence for a quote
func submitQuote(cfg *config.Config, apiClient *client.AggregatorClient, quote *types.QuoteResponse, logger *logrus.Entry, jsonOutput bool) error {
	networkName, network, err := cfg.NetworkForChain(quote.SrcChainID)
	if err != nil {
		return err
	}

	store, err := activity.NewStore(cfg.ActivityPath)
	if err != nil {
		return err
	}

	registry, err := tokens.NewRegistry(cfg.TokensPath, logger)
	if err != nil {
		return err
	}

	evm, err := submitter.New(networkName, network, store, logger)
	if err != nil {
		return err
	}
	defer evm.Close()

	poller := status.NewPoller(
		apiClient,
		store,
		time.Duration(cfg.PollIntervalSec)*time.Second,
		cfg.PollMaxAttempts,
		logger,
	)

	seq := sequencer.New(evm, evm, poller, registry, store, cfg.SlippagePercentage, logger)

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		if quote.Approval != nil {
			s.Suffix = " Submitting approval and bridge transactions..."
		} else {
			s.Suffix = " Submitting bridge transaction..."
		}
		s.Start()
	}

	err = seq.Submit(context.Background(), quote)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		return err
	}

	record, recordErr := store.Latest()

	if jsonOutput {
		output := map[string]interface{}{
			"quote_id": quote.QuoteID,
			"status":   "submitted",
			"route":    store.Route(),
			"tab":      store.ActiveTab(),
		}
		if recordErr == nil {
			output["bridge_tx_hash"] = record.BridgeTxHash
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return nil
	}

	printSuccess(color.GreenString("Bridge transaction submitted!"))
	if recordErr == nil && record.BridgeTxHash != "" {
		fmt.Printf("  Transaction:  %s\n", color.HiBlackString(record.BridgeTxHash))
		fmt.Printf("  Track it with: bridge-swap status %s --watch\n\n", record.BridgeTxHash)
	}

	return nil
}

func displayQuote(quote *types.QuoteResponse, req *types.BridgeRequest) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        BRIDGE QUOTE")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  You send:      %s %s (chain %d)\n", req.Amount, quote.SrcAsset.Symbol, quote.SrcChainID)
	fmt.Printf("  You receive:   %s %s (chain %d)\n", quote.DestAmount, quote.DestAsset.Symbol, quote.DestChainID)
	fmt.Printf("  Bridge:        %s\n", color.CyanString(quote.BridgeID))
	if len(quote.Bridges) > 0 {
		fmt.Printf("  Route:         %s\n", strings.Join(quote.Bridges, " > "))
	}
	if quote.Approval != nil {
		fmt.Printf("  Approval:      %s\n", color.YellowString("required (submitted automatically)"))
	}
	if quote.RefuelEnabled() {
		fmt.Printf("  Refuel:        enabled\n")
	}
	fmt.Printf("  Recipient:     %s\n", color.CyanString(req.Recipient))

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

// newLogger builds the logger shared by the submission collaborators
func newLogger(verbose bool) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return logrus.NewEntry(log)
}
