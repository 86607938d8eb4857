package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bridge-swap/config"
	"bridge-swap/pkg/activity"
	"bridge-swap/pkg/client"
	"bridge-swap/pkg/types"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status [tx-hash]",
	Short: "Check the status of a bridge transaction",
	Long: `Check the destination-chain progress of a submitted bridge transaction.
Without a transaction hash the most recent submission is checked.

Examples:
  bridge-swap status
  bridge-swap status 0x1234...abcd
  bridge-swap status 0x1234...abcd --watch
  bridge-swap status 0x1234...abcd --watch --interval 10`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status updates continuously")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	store, err := activity.NewStore(cfg.ActivityPath)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// Find the submission to check
	var record *activity.Record
	if len(args) > 0 {
		record, err = store.FindByTxHash(args[0])
	} else {
		record, err = store.Latest()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if record.BridgeTxHash == "" {
		printError(fmt.Errorf("transaction for quote '%s' has no on-chain hash yet", record.QuoteID))
		os.Exit(1)
	}

	statusReq, err := types.NewStatusRequest(record.Quote, record.BridgeTxHash)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// Create client
	apiClient := client.NewAggregatorClient(cfg.BaseURL, cfg.APIKey)

	if watchStatus {
		watchBridgeStatus(apiClient, statusReq, jsonOutput)
	} else {
		checkBridgeStatus(apiClient, statusReq, jsonOutput)
	}
}

func checkBridgeStatus(apiClient *client.AggregatorClient, statusReq *types.StatusRequest, jsonOutput bool) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Checking bridge status..."
		s.Start()
	}

	status, err := apiClient.GetTxStatus(context.Background(), statusReq)
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(status, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayStatus(status, statusReq)
	}
}

func watchBridgeStatus(apiClient *client.AggregatorClient, statusReq *types.StatusRequest, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		os.Exit(1)
	}

	fmt.Printf("\nWatching bridge status (Source Tx: %s)\n", color.CyanString(statusReq.SrcTxHash))
	fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n\n", watchInterval)

	ticker := time.NewTicker(time.Duration(watchInterval) * time.Second)
	defer ticker.Stop()

	// Check immediately first
	if checkAndDisplayStatus(apiClient, statusReq) {
		return
	}

	// Then check periodically until the bridge settles
	for range ticker.C {
		if checkAndDisplayStatus(apiClient, statusReq) {
			return
		}
	}
}

// checkAndDisplayStatus returns true once the bridge reached a terminal state
func checkAndDisplayStatus(apiClient *client.AggregatorClient, statusReq *types.StatusRequest) bool {
	status, err := apiClient.GetTxStatus(context.Background(), statusReq)
	if err != nil {
		color.Red("Error: %v", err)
		return false
	}

	displayStatus(status, statusReq)
	return status.IsTerminal()
}

func displayStatus(status *types.StatusResponse, statusReq *types.StatusRequest) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        BRIDGE STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Bridge:          %s\n", color.CyanString(statusReq.Bridge))
	fmt.Printf("  Status:          %s\n", getColoredStatus(status.Status))
	fmt.Printf("  Source Tx:       %s (chain %d)\n", color.HiBlackString(statusReq.SrcTxHash), statusReq.SrcChainID)

	if status.DestTx != nil && status.DestTx.Hash != "" {
		fmt.Printf("  Destination Tx:  %s (chain %d)\n", color.HiBlackString(status.DestTx.Hash), status.DestTx.ChainID)
		if status.DestTx.Amount != "" {
			fmt.Printf("  Amount Out:      %s\n", status.DestTx.Amount)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func getColoredStatus(status string) string {
	status = strings.ToUpper(status)

	switch status {
	case types.StatusComplete:
		return color.GreenString(status)
	case types.StatusPending:
		return color.YellowString(status)
	case types.StatusFailed, types.StatusRefunded:
		return color.RedString(status)
	default:
		return status
	}
}
