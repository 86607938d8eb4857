package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bridge-swap/config"
	"bridge-swap/pkg/tokens"
)

var (
	filterChainID uint64
	filterSymbol  string
)

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List imported tokens",
	Long: `List the tokens that have been imported through bridge submissions.

You can filter tokens by chain id or symbol.

Examples:
  bridge-swap list-tokens
  bridge-swap list-tokens --chain-id 42161
  bridge-swap list-tokens --symbol USDC`,
	Run: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().Uint64Var(&filterChainID, "chain-id", 0, "Filter by chain id")
	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter by token symbol")
}

func runListTokens(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	registry, err := tokens.NewRegistry(cfg.TokensPath, nil)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	imported := registry.List()

	// Apply filters
	filtered := imported
	if filterChainID != 0 {
		var temp []tokens.Token
		for _, token := range filtered {
			if token.ChainID == filterChainID {
				temp = append(temp, token)
			}
		}
		filtered = temp
	}

	if filterSymbol != "" {
		var temp []tokens.Token
		for _, token := range filtered {
			if strings.Contains(strings.ToUpper(token.Symbol), strings.ToUpper(filterSymbol)) {
				temp = append(temp, token)
			}
		}
		filtered = temp
	}

	// Output
	if jsonOutput {
		jsonData, _ := json.MarshalIndent(filtered, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayTokens(filtered)
	}
}

func displayTokens(imported []tokens.Token) {
	if len(imported) == 0 {
		fmt.Println("\nNo tokens imported yet. Tokens appear here after bridge submissions.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                            IMPORTED TOKENS")
	fmt.Println(strings.Repeat("=", 90))

	// Group tokens by chain
	tokensByChain := make(map[uint64][]tokens.Token)
	for _, token := range imported {
		tokensByChain[token.ChainID] = append(tokensByChain[token.ChainID], token)
	}

	// Sort chains numerically
	chains := make([]uint64, 0, len(tokensByChain))
	for chain := range tokensByChain {
		chains = append(chains, chain)
	}
	sort.Slice(chains, func(i, j int) bool { return chains[i] < chains[j] })

	// Display tokens grouped by chain
	for _, chain := range chains {
		color.Cyan("\nCHAIN %d", chain)
		fmt.Println(strings.Repeat("-", 90))

		for _, token := range tokensByChain[chain] {
			address := token.Address
			// Truncate address if too long
			if len(address) > 40 {
				address = address[:37] + "..."
			}

			fmt.Printf("  %-10s  %2d decimals  %s\n",
				color.YellowString(token.Symbol),
				token.Decimals,
				color.HiBlackString(address))
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d tokens across %d chains\n\n", len(imported), len(chains))
}
