package server

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/maypok86/otter/v2"

	"github.com/gssantosss/horariosautomaticosloga/internal/schedule"
)

// CachedResult is a rendered normalize response.
type CachedResult struct {
	ContentType string
	Filename    string
	Body        []byte
}

// ResultCache keeps rendered responses keyed by upload digest and parameters.
type ResultCache struct {
	cache  *otter.Cache[string, CachedResult]
	logger *slog.Logger
}

// NewResultCache creates a bounded cache whose entries expire ttl after write.
func NewResultCache(size int, ttl time.Duration, logger *slog.Logger) *ResultCache {
	return &ResultCache{
		cache: otter.Must(&otter.Options[string, CachedResult]{
			MaximumSize:      size,
			ExpiryCalculator: otter.ExpiryWriting[string, CachedResult](ttl),
		}),
		logger: logger,
	}
}

// Get returns the cached result for key, if present.
func (c *ResultCache) Get(key string) (CachedResult, bool) {
	res, ok := c.cache.GetIfPresent(key)
	if !ok {
		c.logger.Debug("cache miss", "key", key[:12])
		return CachedResult{}, false
	}
	c.logger.Debug("cache hit", "key", key[:12], "size", len(res.Body))
	return res, true
}

// Set stores res under key.
func (c *ResultCache) Set(key string, res CachedResult) {
	c.cache.Set(key, res)
	c.logger.Debug("cache set", "key", key[:12], "size", len(res.Body))
}

// cacheKey hashes everything that changes the rendered response.
func cacheKey(digest, filename, format, sheetName string, opts schedule.Options) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%d\x00%t\x00%d\x00%d\x00%s\x00%v",
		digest, filename, format, sheetName,
		opts.GapThreshold, opts.GapInclusive, opts.EveningHour, opts.MorningHour,
		opts.Policy, opts.CrossingShifts)
	return hex.EncodeToString(h.Sum(nil))
}
