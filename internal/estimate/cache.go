package estimate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/cache"
	"github.com/spherical-ai/spherical/libs/move-estimator/internal/observability"
)

const defaultQuoteKeyPrefix = "estimate:quote:"

// ResponseCache stores quotes keyed by estimator fingerprint and input text.
type ResponseCache struct {
	client cache.Client
	logger *observability.Logger
	config ResponseCacheConfig
}

// ResponseCacheConfig configures the quote cache.
type ResponseCacheConfig struct {
	TTL       time.Duration
	KeyPrefix string
	Enabled   bool
}

// DefaultResponseCacheConfig returns default cache configuration.
func DefaultResponseCacheConfig() ResponseCacheConfig {
	return ResponseCacheConfig{
		TTL:       10 * time.Minute,
		KeyPrefix: defaultQuoteKeyPrefix,
		Enabled:   true,
	}
}

// NewResponseCache creates a quote cache over client.
func NewResponseCache(client cache.Client, logger *observability.Logger, config ResponseCacheConfig) *ResponseCache {
	if config.KeyPrefix == "" {
		config.KeyPrefix = defaultQuoteKeyPrefix
	}
	if config.TTL == 0 {
		config.TTL = 10 * time.Minute
	}
	if logger == nil {
		logger = observability.Nop()
	}
	return &ResponseCache{client: client, logger: logger, config: config}
}

// CacheKey is deterministic for an estimator fingerprint and input text. Surrounding whitespace is ignored.
func (c *ResponseCache) CacheKey(fingerprint, text string) string {
	hash := sha256.Sum256([]byte(fingerprint + "|" + strings.TrimSpace(text)))
	return cache.CacheKey(strings.TrimSuffix(c.config.KeyPrefix, ":"), hex.EncodeToString(hash[:16]))
}

type cachedQuote struct {
	Quote    *Quote    `json:"quote"`
	CachedAt time.Time `json:"cached_at"`
}

// Get returns a cached quote. Errors are logged and treated as a miss.
func (c *ResponseCache) Get(ctx context.Context, fingerprint, text string) (*Quote, bool) {
	if !c.config.Enabled || c.client == nil {
		return nil, false
	}

	key := c.CacheKey(fingerprint, text)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Debug().Err(err).Str("key", key).Msg("Cache get error")
		}
		return nil, false
	}

	var cached cachedQuote
	if err := json.Unmarshal(data, &cached); err != nil || cached.Quote == nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to unmarshal cached quote")
		return nil, false
	}

	c.logger.Debug().Str("key", key).Msg("Cache hit")
	return cached.Quote, true
}

// Set stores a quote.
func (c *ResponseCache) Set(ctx context.Context, fingerprint, text string, q *Quote) error {
	if !c.config.Enabled || c.client == nil {
		return nil
	}

	key := c.CacheKey(fingerprint, text)
	data, err := json.Marshal(cachedQuote{Quote: q, CachedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("failed to marshal quote: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.config.TTL); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache quote")
		return err
	}

	c.logger.Debug().Str("key", key).Dur("ttl", c.config.TTL).Msg("Cached quote")
	return nil
}

// Invalidate drops every cached quote.
func (c *ResponseCache) Invalidate(ctx context.Context) error {
	if !c.config.Enabled || c.client == nil {
		return nil
	}
	c.logger.Info().Str("prefix", c.config.KeyPrefix).Msg("Invalidating quote cache")
	return c.client.DeleteByPrefix(ctx, c.config.KeyPrefix)
}

// CachedEstimator serves repeated inputs from a ResponseCache. Each returned quote gets a
// fresh ID and is marked Cached when it came from the cache.
type CachedEstimator struct {
	estimator *Estimator
	cache     *ResponseCache
}

// NewCachedEstimator wraps est with c.
func NewCachedEstimator(est *Estimator, c *ResponseCache) *CachedEstimator {
	return &CachedEstimator{estimator: est, cache: c}
}

// Estimate returns a cached quote when one exists, otherwise runs the pipeline and stores the result.
func (c *CachedEstimator) Estimate(ctx context.Context, text string) (*Quote, error) {
	fingerprint := c.estimator.Fingerprint()
	if q, ok := c.cache.Get(ctx, fingerprint, text); ok {
		q.ID = uuid.New()
		q.Cached = true
		return q, nil
	}

	q, err := c.estimator.Estimate(ctx, text)
	if err != nil {
		return nil, err
	}
	// Cache failures are already logged and never fail the request.
	_ = c.cache.Set(ctx, fingerprint, text, q)
	return q, nil
}
