package parser

import (
	"fmt"
	"regexp"
	"strings"

	"bridge-swap/pkg/types"
)

// ParseBridgeCommand parses a natural language bridge command
// Examples:
//   - "bridge 0.5 ETH to USDC"
//   - "1.5 ETH to MATIC"
//   - "100 USDC to DAI"
func ParseBridgeCommand(command string) (*types.BridgeRequest, error) {
	// Normalize the command
	command = strings.TrimSpace(strings.ToUpper(command))

	// Remove the word "BRIDGE" if present at the beginning
	command = strings.TrimPrefix(command, "BRIDGE ")

	// Pattern: <amount> <source_token> TO <dest_token>
	// Matches: "0.5 ETH TO USDC", "1.5 ETH TO MATIC", "100.25 USDC TO DAI"
	pattern := regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Z0-9]+)\s+TO\s+([A-Z0-9]+)$`)

	matches := pattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid bridge command format. Expected: 'bridge <amount> <token> to <token>' (e.g., 'bridge 0.5 ETH to USDC')")
	}

	return &types.BridgeRequest{
		Amount:      matches[1],
		SourceToken: matches[2],
		DestToken:   matches[3],
	}, nil
}

// ValidateBridgeRequest validates that a bridge request has all required fields
func ValidateBridgeRequest(req *types.BridgeRequest) error {
	if req.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if req.SourceToken == "" {
		return fmt.Errorf("source token is required")
	}
	if req.DestToken == "" {
		return fmt.Errorf("destination token is required")
	}
	return nil
}

// NormalizeTokenSymbol normalizes token symbols to standard format
func NormalizeTokenSymbol(symbol string) string {
	// Convert to uppercase for consistency
	symbol = strings.TrimSpace(strings.ToUpper(symbol))

	// Handle common aliases
	aliases := map[string]string{
		"WBTC": "BTC",
		"WETH": "ETH",
	}

	if normalized, exists := aliases[symbol]; exists {
		return normalized
	}

	return symbol
}
