package activity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"bridge-swap/pkg/types"
)

const (
	DefaultStoreFileName = ".bridge-swap-activity.json"
)

// Record is one bridge submission as shown in the activity feed
type Record struct {
	ID           string               `json:"id"`
	QuoteID      string               `json:"quote_id"`
	SrcChainID   uint64               `json:"src_chain_id"`
	DestChainID  uint64               `json:"dest_chain_id"`
	SrcSymbol    string               `json:"src_symbol"`
	DestSymbol   string               `json:"dest_symbol"`
	SrcAmount    string               `json:"src_amount"`
	DestAmount   string               `json:"dest_amount"`
	BridgeID     string               `json:"bridge_id"`
	ApprovalTxID string               `json:"approval_tx_id,omitempty"`
	BridgeTxHash string               `json:"bridge_tx_hash,omitempty"`
	DestTxHash   string               `json:"dest_tx_hash,omitempty"`
	Status       string               `json:"status"`
	Quote        *types.QuoteResponse `json:"quote"`
	SubmittedAt  time.Time            `json:"submitted_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// Store holds the submission records and the small slice of UI state the
// submission flow touches (active home tab, current route). All writes
// go through one mutex, so dispatches are observed in the order they
// were issued.
type Store struct {
	filePath string
	mu       sync.Mutex
	state    storeState

	// route is session state, never persisted
	route string
}

// storeState represents the JSON structure for storage
type storeState struct {
	Records   []Record `json:"records"`
	ActiveTab string   `json:"active_tab,omitempty"`
}

// NewStore creates a new activity store instance
func NewStore(filePath string) (*Store, error) {
	if filePath == "" {
		// Default to home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		filePath = filepath.Join(home, DefaultStoreFileName)
	}

	store := &Store{
		filePath: filePath,
	}

	// Load existing records if file exists
	if err := store.load(); err != nil {
		// If file doesn't exist, that's okay - we'll create it on first save
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load activity: %w", err)
		}
	}

	return store, nil
}

// RecordSubmission appends a record for a freshly submitted bridge
// transaction and persists it
func (s *Store) RecordSubmission(quote *types.QuoteResponse, approvalTxID string, meta *types.TransactionMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := Record{
		ID:           uuid.NewString(),
		QuoteID:      quote.QuoteID,
		SrcChainID:   quote.SrcChainID,
		DestChainID:  quote.DestChainID,
		SrcSymbol:    quote.SrcAsset.Symbol,
		DestSymbol:   quote.DestAsset.Symbol,
		SrcAmount:    quote.SrcAmount,
		DestAmount:   quote.DestAmount,
		BridgeID:     quote.BridgeID,
		ApprovalTxID: approvalTxID,
		BridgeTxHash: meta.Hash,
		Status:       types.StatusPending,
		Quote:        quote,
		SubmittedAt:  meta.SubmittedAt,
		UpdatedAt:    meta.SubmittedAt,
	}

	s.state.Records = append(s.state.Records, record)
	return s.save()
}

// UpdateStatus applies a status-poll result to the record for a quote
func (s *Store) UpdateStatus(quoteID string, status *types.StatusResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Records {
		record := &s.state.Records[i]
		if record.QuoteID != quoteID {
			continue
		}

		record.Status = status.Status
		record.UpdatedAt = time.Now()
		if status.DestTx != nil {
			record.DestTxHash = status.DestTx.Hash
		}
		return s.save()
	}

	return fmt.Errorf("no activity record for quote '%s'", quoteID)
}

// SetActiveTab switches the home tab and persists the change before
// returning, so callers can rely on the tab being applied
func (s *Store) SetActiveTab(tab string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ActiveTab = tab
	return s.save()
}

// Navigate moves the session to a route. Routing is in-memory only.
func (s *Store) Navigate(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.route = route
}

// ActiveTab returns the current home tab
func (s *Store) ActiveTab() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.ActiveTab
}

// Route returns the current session route
func (s *Store) Route() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.route
}

// List returns all records, newest first
func (s *Store) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]Record, len(s.state.Records))
	copy(records, s.state.Records)

	// Stored oldest-first; the feed shows newest first
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}

	return records
}

// FindByTxHash returns the record for a bridge transaction hash
func (s *Store) FindByTxHash(hash string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Records {
		if s.state.Records[i].BridgeTxHash == hash {
			record := s.state.Records[i]
			return &record, nil
		}
	}

	return nil, fmt.Errorf("no activity record for transaction '%s'", hash)
}

// Latest returns the most recent record
func (s *Store) Latest() (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.state.Records) == 0 {
		return nil, fmt.Errorf("no bridge submissions recorded yet")
	}

	record := s.state.Records[len(s.state.Records)-1]
	return &record, nil
}

// load reads the store state from disk. Caller must not hold the lock.
func (s *Store) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var state storeState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to unmarshal activity: %w", err)
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	return nil
}

// save writes the store state to disk. Caller must hold the lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write to temporary file first, then rename for atomic write
	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write activity: %w", err)
	}

	if err := os.Rename(tempFile, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
