package job

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
)

const (
	searchCachePrefix  = "jobs:search:"
	searchCachePattern = searchCachePrefix + "*"
	searchCacheTTL     = 5 * time.Minute
)

// SearchCache is satisfied by the Redis cache client. Every posted job drops
// all cached pages.
type SearchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type searchCacheKeyInput struct {
	Query    string `json:"query"`
	Location string `json:"location"`
	Page     int    `json:"page"`
}

func normalizeSearchValue(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func SearchCacheKey(f Filters, page int) string {
	in := searchCacheKeyInput{
		Query:    normalizeSearchValue(f.Query),
		Location: normalizeSearchValue(f.Location),
		Page:     page,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return searchCachePrefix + hex.EncodeToString(sum[:])
}
