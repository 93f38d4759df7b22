package ratelimit

import (
	"context"
	"fmt"
	"strings"

	"github.com/billforge/billforge/internal/config"
)

const keyUsageIngestClient = "usage:ingest:client:%s"

// UsageIngestLimiter throttles usage ingestion per client. It degrades to
// a no-op when no redis address is configured so single-node deployments
// work out of the box.
type UsageIngestLimiter struct {
	enabled bool

	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewUsageIngestLimiter(cfg config.Config, bucket *TokenBucket) *UsageIngestLimiter {
	if bucket == nil || cfg.UsageIngestRate <= 0 || cfg.UsageIngestBurst <= 0 {
		return &UsageIngestLimiter{}
	}
	return &UsageIngestLimiter{
		enabled: true,
		bucket:  bucket,
		rate:    cfg.UsageIngestRate,
		burst:   cfg.UsageIngestBurst,
	}
}

func (l *UsageIngestLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *UsageIngestLimiter) Allow(ctx context.Context, clientReference string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	key := fmt.Sprintf(keyUsageIngestClient, strings.TrimSpace(clientReference))
	return l.bucket.Allow(ctx, key, l.rate, l.burst)
}
