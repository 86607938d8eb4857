package activity

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bridge-swap/pkg/types"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activity.json")
	store, err := NewStore(path)
	require.NoError(t, err)
	return store, path
}

func storeQuote(id string) *types.QuoteResponse {
	return &types.QuoteResponse{
		QuoteID:     id,
		SrcChainID:  1,
		DestChainID: 10,
		SrcAsset:    types.AssetDescriptor{ChainID: 1, Symbol: "USDC"},
		DestAsset:   types.AssetDescriptor{ChainID: 10, Symbol: "DAI"},
		SrcAmount:   "100",
		DestAmount:  "99.5",
		BridgeID:    "hop",
		Bridges:     []string{"hop"},
	}
}

func TestRecordSubmission(t *testing.T) {
	store, path := testStore(t)

	meta := &types.TransactionMeta{
		ID:          "tx-1",
		Hash:        "0xAB",
		SubmittedAt: time.Unix(1000, 0),
	}
	require.NoError(t, store.RecordSubmission(storeQuote("q-1"), "approval-1", meta))

	records := store.List()
	require.Len(t, records, 1)
	assert.Equal(t, "q-1", records[0].QuoteID)
	assert.Equal(t, "approval-1", records[0].ApprovalTxID)
	assert.Equal(t, "0xAB", records[0].BridgeTxHash)
	assert.Equal(t, types.StatusPending, records[0].Status)
	assert.NotEmpty(t, records[0].ID)

	// Persisted: a fresh store sees the record
	reopened, err := NewStore(path)
	require.NoError(t, err)
	assert.Len(t, reopened.List(), 1)
}

func TestListNewestFirst(t *testing.T) {
	store, _ := testStore(t)

	for i, id := range []string{"q-1", "q-2", "q-3"} {
		meta := &types.TransactionMeta{
			ID:          id,
			Hash:        "0xAB",
			SubmittedAt: time.Unix(int64(1000+i), 0),
		}
		require.NoError(t, store.RecordSubmission(storeQuote(id), "", meta))
	}

	records := store.List()
	require.Len(t, records, 3)
	assert.Equal(t, "q-3", records[0].QuoteID)
	assert.Equal(t, "q-1", records[2].QuoteID)
}

func TestUpdateStatus(t *testing.T) {
	store, _ := testStore(t)

	meta := &types.TransactionMeta{ID: "tx-1", Hash: "0xAB", SubmittedAt: time.Unix(1000, 0)}
	require.NoError(t, store.RecordSubmission(storeQuote("q-1"), "", meta))

	err := store.UpdateStatus("q-1", &types.StatusResponse{
		Status: types.StatusComplete,
		DestTx: &types.StatusTx{Hash: "0xCD", ChainID: 10},
	})
	require.NoError(t, err)

	record, err := store.FindByTxHash("0xAB")
	require.NoError(t, err)
	assert.Equal(t, types.StatusComplete, record.Status)
	assert.Equal(t, "0xCD", record.DestTxHash)
}

func TestUpdateStatusUnknownQuote(t *testing.T) {
	store, _ := testStore(t)

	err := store.UpdateStatus("missing", &types.StatusResponse{Status: types.StatusComplete})
	assert.Error(t, err)
}

func TestSetActiveTabPersists(t *testing.T) {
	store, path := testStore(t)

	require.NoError(t, store.SetActiveTab("activity"))
	assert.Equal(t, "activity", store.ActiveTab())

	reopened, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, "activity", reopened.ActiveTab())
}

func TestNavigateIsSessionOnly(t *testing.T) {
	store, path := testStore(t)

	store.Navigate("/")
	assert.Equal(t, "/", store.Route())

	reopened, err := NewStore(path)
	require.NoError(t, err)
	assert.Empty(t, reopened.Route())
}

func TestLatest(t *testing.T) {
	store, _ := testStore(t)

	_, err := store.Latest()
	assert.Error(t, err)

	meta := &types.TransactionMeta{ID: "tx-1", Hash: "0xAB", SubmittedAt: time.Unix(1000, 0)}
	require.NoError(t, store.RecordSubmission(storeQuote("q-1"), "", meta))
	meta2 := &types.TransactionMeta{ID: "tx-2", Hash: "0xCD", SubmittedAt: time.Unix(1001, 0)}
	require.NoError(t, store.RecordSubmission(storeQuote("q-2"), "", meta2))

	latest, err := store.Latest()
	require.NoError(t, err)
	assert.Equal(t, "q-2", latest.QuoteID)
}
