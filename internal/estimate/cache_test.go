package estimate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/cache"
	"github.com/spherical-ai/spherical/libs/move-estimator/internal/dictionary"
)

type failingClient struct{}

func (failingClient) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingClient) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func (failingClient) Delete(context.Context, string) error         { return nil }
func (failingClient) DeleteByPrefix(context.Context, string) error { return nil }
func (failingClient) Close() error                                 { return nil }

func TestResponseCache_Key(t *testing.T) {
	c := NewResponseCache(nil, nil, ResponseCacheConfig{})

	a := c.CacheKey("fp1", "sofa\nbed")
	assert.Equal(t, a, c.CacheKey("fp1", "  sofa\nbed \n"))
	assert.NotEqual(t, a, c.CacheKey("fp2", "sofa\nbed"))
	assert.NotEqual(t, a, c.CacheKey("fp1", "sofa\nbeds"))
	assert.Contains(t, a, "estimate:quote:")
}

func TestCachedEstimator(t *testing.T) {
	ctx := context.Background()
	client := cache.NewMemoryClient(10)
	defer client.Close()

	est := newTestEstimator(t, dictionary.Builtin())
	cached := NewCachedEstimator(est, NewResponseCache(client, nil, DefaultResponseCacheConfig()))

	first, err := cached.Estimate(ctx, "sofa\n2 armchairs")
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, client.Len())

	second, err := cached.Estimate(ctx, "sofa\n2 armchairs")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.TotalVolume, second.TotalVolume)
	assert.Equal(t, first.Breakdown, second.Breakdown)

	// Mutating a returned quote never leaks into the next hit.
	second.Breakdown[0].Name = "changed"
	third, err := cached.Estimate(ctx, "sofa\n2 armchairs")
	require.NoError(t, err)
	assert.Equal(t, first.Breakdown[0].Name, third.Breakdown[0].Name)
}

func TestCachedEstimator_DictionaryChangeMisses(t *testing.T) {
	ctx := context.Background()
	client := cache.NewMemoryClient(10)
	defer client.Close()
	rc := NewResponseCache(client, nil, DefaultResponseCacheConfig())

	a := NewCachedEstimator(newTestEstimator(t, dictionary.MustNew([]dictionary.Entry{{Name: "sofa", Volume: 90}})), rc)
	b := NewCachedEstimator(newTestEstimator(t, dictionary.MustNew([]dictionary.Entry{{Name: "sofa", Volume: 95}})), rc)

	qa, err := a.Estimate(ctx, "sofa")
	require.NoError(t, err)
	qb, err := b.Estimate(ctx, "sofa")
	require.NoError(t, err)

	assert.False(t, qb.Cached)
	assert.Equal(t, 90.0, qa.TotalVolume)
	assert.Equal(t, 95.0, qb.TotalVolume)

	require.NoError(t, rc.Invalidate(ctx))
	assert.Zero(t, client.Len())
}

func TestCachedEstimator_OptionChangeMisses(t *testing.T) {
	ctx := context.Background()
	client := cache.NewMemoryClient(10)
	defer client.Close()
	rc := NewResponseCache(client, nil, DefaultResponseCacheConfig())

	retuned := DefaultOptions()
	retuned.Bands = Bands{{MaxVolume: 50, Vehicle: "Estate Car", Crew: 1}, {Vehicle: "Big Truck", Crew: 5}}
	stockEst := newTestEstimator(t, dictionary.Builtin())
	retunedEst, err := New(dictionary.Builtin(), retuned, nil)
	require.NoError(t, err)

	assert.NotEqual(t, stockEst.Fingerprint(), retunedEst.Fingerprint())

	stock, err := NewCachedEstimator(stockEst, rc).Estimate(ctx, "sofa")
	require.NoError(t, err)
	q, err := NewCachedEstimator(retunedEst, rc).Estimate(ctx, "sofa")
	require.NoError(t, err)

	assert.Equal(t, "Transit Van", stock.Recommendation.Vehicle)
	assert.False(t, q.Cached)
	assert.Equal(t, "Big Truck", q.Recommendation.Vehicle)
	assert.Equal(t, 5, q.Recommendation.Crew)
	assert.Equal(t, 2, client.Len())
}

func TestOptionsFingerprint(t *testing.T) {
	a := DefaultOptions()
	assert.Equal(t, a.Fingerprint(), DefaultOptions().Fingerprint())

	b := DefaultOptions()
	b.Parser.FallbackVolume = 7
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	c := DefaultOptions()
	c.Resolver.ProportionalThreshold = 0.2
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	d := DefaultOptions()
	d.Pricing.PerCubicFoot = 1
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint())
}

func TestCachedEstimator_CacheFailuresDoNotFail(t *testing.T) {
	est := newTestEstimator(t, dictionary.Builtin())
	cached := NewCachedEstimator(est, NewResponseCache(failingClient{}, nil, DefaultResponseCacheConfig()))

	q, err := cached.Estimate(context.Background(), "sofa")
	require.NoError(t, err)
	assert.Equal(t, 90.0, q.TotalVolume)
}

func TestResponseCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	client := cache.NewMemoryClient(10)
	defer client.Close()
	rc := NewResponseCache(client, nil, DefaultResponseCacheConfig())

	require.NoError(t, client.Set(ctx, rc.CacheKey("fp", "sofa"), []byte("not json"), time.Minute))
	_, ok := rc.Get(ctx, "fp", "sofa")
	assert.False(t, ok)
}

func TestCachedEstimator_PropagatesErrors(t *testing.T) {
	client := cache.NewMemoryClient(10)
	defer client.Close()

	cached := NewCachedEstimator(newTestEstimator(t, nil), NewResponseCache(client, nil, DefaultResponseCacheConfig()))
	_, err := cached.Estimate(context.Background(), "sofa")
	assert.ErrorIs(t, err, ErrNoDictionary)
}
