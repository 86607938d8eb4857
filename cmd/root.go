package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bridge-swap",
	Short: "A CLI for submitting cross-chain bridge transactions",
	Long: `bridge-swap is a command-line tool that bridges tokens across EVM chains.
It fetches a quote from the bridge aggregator, submits the ERC-20 approval
when one is needed, broadcasts the bridge transaction and keeps polling
until the tokens arrive on the destination chain.

Examples:
  bridge-swap bridge 0.5 ETH to USDC --from-chain ethereum --to-chain arbitrum --recipient 0x123...
  bridge-swap status <tx-hash>
  bridge-swap activity
  bridge-swap list-tokens`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}
