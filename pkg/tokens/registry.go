package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"bridge-swap/pkg/types"
)

const (
	DefaultRegistryFileName = ".bridge-swap-tokens.json"
)

// Token is an imported token entry
type Token struct {
	ChainID    uint64    `json:"chain_id"`
	Address    string    `json:"address"`
	Symbol     string    `json:"symbol"`
	Decimals   int       `json:"decimals"`
	ImportedAt time.Time `json:"imported_at"`
}

// Registry keeps the tokens the user has bridged so they show up in the
// token list. Native assets are never stored; they are always listed.
type Registry struct {
	filePath string
	mu       sync.RWMutex
	tokens   map[string]Token
	log      *logrus.Entry
}

// registryFile represents the JSON structure for storage
type registryFile struct {
	Tokens map[string]Token `json:"tokens"`
}

// NewRegistry creates a new registry instance
func NewRegistry(filePath string, logger *logrus.Entry) (*Registry, error) {
	if filePath == "" {
		// Default to home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		filePath = filepath.Join(home, DefaultRegistryFileName)
	}

	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	registry := &Registry{
		filePath: filePath,
		tokens:   make(map[string]Token),
		log:      logger,
	}

	// Load existing tokens if file exists
	if err := registry.load(); err != nil {
		// If file doesn't exist, that's okay - we'll create it on first save
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load tokens: %w", err)
		}
	}

	return registry, nil
}

// RegisterSourceToken records the quote's source asset in the background.
// The caller never observes the result; failures are logged here.
func (r *Registry) RegisterSourceToken(quote *types.QuoteResponse) {
	go func() {
		if err := r.register(quote.SrcAsset); err != nil {
			r.log.WithError(err).WithField("token", quote.SrcAsset.Address).Warn("Failed to register source token")
		}
	}()
}

// RegisterDestToken records the quote's destination asset and waits for
// it to be persisted
func (r *Registry) RegisterDestToken(ctx context.Context, quote *types.QuoteResponse) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.register(quote.DestAsset)
}

// register adds an asset to the registry if it isn't already present
func (r *Registry) register(asset types.AssetDescriptor) error {
	if asset.IsNative() {
		return nil
	}

	r.mu.Lock()
	k := key(asset.ChainID, asset.Address)
	if _, exists := r.tokens[k]; exists {
		r.mu.Unlock()
		return nil
	}

	r.tokens[k] = Token{
		ChainID:    asset.ChainID,
		Address:    strings.ToLower(asset.Address),
		Symbol:     asset.Symbol,
		Decimals:   asset.Decimals,
		ImportedAt: time.Now(),
	}
	r.mu.Unlock()

	return r.save()
}

// List returns all imported tokens sorted by chain then symbol
func (r *Registry) List() []Token {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := make([]Token, 0, len(r.tokens))
	for _, token := range r.tokens {
		tokens = append(tokens, token)
	}

	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].ChainID != tokens[j].ChainID {
			return tokens[i].ChainID < tokens[j].ChainID
		}
		return tokens[i].Symbol < tokens[j].Symbol
	})

	return tokens
}

// Contains checks whether a token is already registered
func (r *Registry) Contains(chainID uint64, address string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.tokens[key(chainID, address)]
	return exists
}

// Count returns the number of registered tokens
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tokens)
}

func key(chainID uint64, address string) string {
	return fmt.Sprintf("%d:%s", chainID, strings.ToLower(address))
}

// load reads tokens from the registry file
func (r *Registry) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.filePath)
	if err != nil {
		return err
	}

	var file registryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to unmarshal tokens: %w", err)
	}

	r.tokens = file.Tokens
	if r.tokens == nil {
		r.tokens = make(map[string]Token)
	}

	return nil
}

// save writes tokens to the registry file
func (r *Registry) save() error {
	r.mu.RLock()
	file := registryFile{
		Tokens: r.tokens,
	}

	data, err := json.MarshalIndent(file, "", "  ")
	r.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(r.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write to temporary file first, then rename for atomic write
	tempFile := r.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write tokens: %w", err)
	}

	if err := os.Rename(tempFile, r.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
