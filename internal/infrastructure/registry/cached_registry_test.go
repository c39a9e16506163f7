package registry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shankarsai000/Explainable-AI-for-Blockchain-Transactions/internal/domain/entity"
)

const (
	usdtContract  = "0xdAC17F958D2ee523a2206206994597C13D831ec7"
	binanceWallet = "0x28C6c06298d514Db089934071355E5743bf21d60"
)

// countingRegistry wraps the static tables and counts backend hits
type countingRegistry struct {
	backend *StaticRegistry
	hits    atomic.Int64
	fail    atomic.Bool
}

func (c *countingRegistry) LookupAddress(ctx context.Context, address string) (*entity.AddressLabel, error) {
	c.hits.Add(1)
	if c.fail.Load() {
		return nil, errors.New("backend down")
	}
	return c.backend.LookupAddress(ctx, address)
}

func (c *countingRegistry) LookupToken(ctx context.Context, contractAddress string) (*entity.TokenInfo, error) {
	c.hits.Add(1)
	if c.fail.Load() {
		return nil, errors.New("backend down")
	}
	return c.backend.LookupToken(ctx, contractAddress)
}

func TestStaticRegistryLookups(t *testing.T) {
	r := NewStaticRegistry()
	ctx := context.Background()

	token, err := r.LookupToken(ctx, usdtContract)
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, "USDT", token.Symbol)
	assert.Equal(t, uint8(6), token.Decimals)

	label, err := r.LookupAddress(ctx, binanceWallet)
	require.NoError(t, err)
	require.NotNil(t, label)
	assert.Equal(t, entity.AddressTypeExchange, label.Type)

	miss, err := r.LookupAddress(ctx, "0x0000000000000000000000000000000000000001")
	require.NoError(t, err)
	assert.Nil(t, miss)
}

func TestCachedRegistryCachesHits(t *testing.T) {
	backend := &countingRegistry{backend: &StaticRegistry{}}
	cached := NewCachedRegistry(backend, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		token, err := cached.LookupToken(ctx, usdtContract)
		require.NoError(t, err)
		require.NotNil(t, token)
		assert.Equal(t, "USDT", token.Symbol)
	}

	assert.Equal(t, int64(1), backend.hits.Load())
}

func TestCachedRegistryCachesMisses(t *testing.T) {
	backend := &countingRegistry{backend: &StaticRegistry{}}
	cached := NewCachedRegistry(backend, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		label, err := cached.LookupAddress(ctx, "0x0000000000000000000000000000000000000001")
		require.NoError(t, err)
		assert.Nil(t, label)
	}

	assert.Equal(t, int64(1), backend.hits.Load())
}

func TestCachedRegistryDoesNotCacheFailures(t *testing.T) {
	backend := &countingRegistry{backend: &StaticRegistry{}}
	cached := NewCachedRegistry(backend, time.Minute)
	ctx := context.Background()

	backend.fail.Store(true)
	_, err := cached.LookupAddress(ctx, binanceWallet)
	require.Error(t, err)

	backend.fail.Store(false)
	label, err := cached.LookupAddress(ctx, binanceWallet)
	require.NoError(t, err)
	require.NotNil(t, label)

	assert.Equal(t, int64(2), backend.hits.Load())
}

func TestCachedRegistryExpiry(t *testing.T) {
	backend := &countingRegistry{backend: &StaticRegistry{}}
	cached := NewCachedRegistry(backend, time.Millisecond)
	ctx := context.Background()

	_, err := cached.LookupToken(ctx, usdtContract)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = cached.LookupToken(ctx, usdtContract)
	require.NoError(t, err)
	assert.Equal(t, int64(2), backend.hits.Load())
}

func TestCachedRegistryPurge(t *testing.T) {
	backend := &countingRegistry{backend: &StaticRegistry{}}
	cached := NewCachedRegistry(backend, time.Minute)
	ctx := context.Background()

	_, err := cached.LookupToken(ctx, usdtContract)
	require.NoError(t, err)
	cached.Purge()
	_, err = cached.LookupToken(ctx, usdtContract)
	require.NoError(t, err)

	assert.Equal(t, int64(2), backend.hits.Load())
}

func TestCachedRegistryKeyCaseInsensitive(t *testing.T) {
	backend := &countingRegistry{backend: &StaticRegistry{}}
	cached := NewCachedRegistry(backend, time.Minute)
	ctx := context.Background()

	_, err := cached.LookupToken(ctx, usdtContract)
	require.NoError(t, err)
	_, err = cached.LookupToken(ctx, "0xDAC17F958D2EE523A2206206994597C13D831EC7")
	require.NoError(t, err)

	assert.Equal(t, int64(1), backend.hits.Load())
}
