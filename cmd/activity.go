package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bridge-swap/config"
	"bridge-swap/pkg/activity"
	"bridge-swap/pkg/types"
)

var activityStatusFilter string

var activityCmd = &cobra.Command{
	Use:     "activity",
	Aliases: []string{"history"},
	Short:   "Show past bridge submissions",
	Long: `Show the activity feed of submitted bridge transactions, newest first.

Examples:
  bridge-swap activity
  bridge-swap activity --status PENDING
  bridge-swap activity --json`,
	Run: runActivity,
}

func init() {
	rootCmd.AddCommand(activityCmd)

	activityCmd.Flags().StringVar(&activityStatusFilter, "status", "", "Filter by status (PENDING, COMPLETE, FAILED, REFUNDED)")
}

func runActivity(cmd *cobra.Command, args []string) {
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

	records := store.List()

	// Apply status filter
	if activityStatusFilter != "" {
		filter := strings.ToUpper(activityStatusFilter)
		var temp []activity.Record
		for _, record := range records {
			if record.Status == filter {
				temp = append(temp, record)
			}
		}
		records = temp
	}

	if jsonOutput {
		output, _ := json.MarshalIndent(records, "", "  ")
		fmt.Println(string(output))
		return
	}

	if len(records) == 0 {
		color.Yellow("No bridge submissions found.\n")
		fmt.Println("\nSubmit one with:")
		color.Cyan("  bridge-swap bridge <amount> <token> to <token> --recipient <address>\n")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 120))
	color.Green("                                              BRIDGE ACTIVITY")
	fmt.Println(strings.Repeat("=", 120))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSUBMITTED\tROUTE\tAMOUNT IN\tAMOUNT OUT\tBRIDGE\tSTATUS\tSOURCE TX\tDEST TX")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for _, record := range records {
		submitted := record.SubmittedAt.Format("2006-01-02 15:04")
		route := fmt.Sprintf("%d -> %d", record.SrcChainID, record.DestChainID)
		amountIn := fmt.Sprintf("%s %s", record.SrcAmount, record.SrcSymbol)
		amountOut := fmt.Sprintf("%s %s", record.DestAmount, record.DestSymbol)
		status := getColoredRecordStatus(record.Status)
		srcTx := truncateString(record.BridgeTxHash, 12)
		destTx := truncateString(record.DestTxHash, 12)

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			submitted, route, amountIn, amountOut, record.BridgeID, status, srcTx, destTx)
	}

	w.Flush()
	fmt.Println("\n" + strings.Repeat("=", 120) + "\n")
}

func getColoredRecordStatus(status string) string {
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

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
