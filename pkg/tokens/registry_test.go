package tokens

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bridge-swap/pkg/types"
)

func testRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tokens.json")
	registry, err := NewRegistry(path, nil)
	require.NoError(t, err)
	return registry, path
}

func quoteWithAssets(src, dest types.AssetDescriptor) *types.QuoteResponse {
	return &types.QuoteResponse{
		QuoteID:   "q-1",
		SrcAsset:  src,
		DestAsset: dest,
	}
}

func TestRegisterDestToken(t *testing.T) {
	registry, path := testRegistry(t)

	quote := quoteWithAssets(
		types.AssetDescriptor{ChainID: 1, Address: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", Symbol: "USDC", Decimals: 6},
		types.AssetDescriptor{ChainID: 10, Address: "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB", Symbol: "DAI", Decimals: 18},
	)

	err := registry.RegisterDestToken(context.Background(), quote)
	require.NoError(t, err)

	assert.True(t, registry.Contains(10, "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"))
	assert.Equal(t, 1, registry.Count())

	// Persisted: a fresh registry sees the token
	reopened, err := NewRegistry(path, nil)
	require.NoError(t, err)
	assert.True(t, reopened.Contains(10, "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"))
}

func TestRegisterDestTokenIdempotent(t *testing.T) {
	registry, _ := testRegistry(t)

	quote := quoteWithAssets(
		types.AssetDescriptor{ChainID: 1, Address: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", Symbol: "USDC", Decimals: 6},
		types.AssetDescriptor{ChainID: 10, Address: "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB", Symbol: "DAI", Decimals: 18},
	)

	require.NoError(t, registry.RegisterDestToken(context.Background(), quote))
	require.NoError(t, registry.RegisterDestToken(context.Background(), quote))

	assert.Equal(t, 1, registry.Count())
}

func TestRegisterDestTokenSkipsNative(t *testing.T) {
	registry, _ := testRegistry(t)

	quote := quoteWithAssets(
		types.AssetDescriptor{ChainID: 1, Address: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"},
		types.AssetDescriptor{ChainID: 10, Address: types.NativeAssetSentinel, Symbol: "ETH"},
	)

	require.NoError(t, registry.RegisterDestToken(context.Background(), quote))
	assert.Equal(t, 0, registry.Count())
}

func TestRegisterSourceTokenAsync(t *testing.T) {
	registry, _ := testRegistry(t)

	quote := quoteWithAssets(
		types.AssetDescriptor{ChainID: 1, Address: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", Symbol: "USDC", Decimals: 6},
		types.AssetDescriptor{ChainID: 10, Address: "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB", Symbol: "DAI", Decimals: 18},
	)

	registry.RegisterSourceToken(quote)

	assert.Eventually(t, func() bool {
		return registry.Contains(1, "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	}, time.Second, 10*time.Millisecond)
}

func TestListSorted(t *testing.T) {
	registry, _ := testRegistry(t)

	quotes := []*types.QuoteResponse{
		quoteWithAssets(
			types.AssetDescriptor{ChainID: 1, Address: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"},
			types.AssetDescriptor{ChainID: 137, Address: "0xCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC", Symbol: "WBTC"},
		),
		quoteWithAssets(
			types.AssetDescriptor{ChainID: 1, Address: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"},
			types.AssetDescriptor{ChainID: 10, Address: "0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB", Symbol: "DAI"},
		),
	}

	for _, quote := range quotes {
		require.NoError(t, registry.RegisterDestToken(context.Background(), quote))
	}

	listed := registry.List()
	require.Len(t, listed, 2)
	assert.Equal(t, uint64(10), listed[0].ChainID)
	assert.Equal(t, uint64(137), listed[1].ChainID)
}
