// Package cache provides a small generic LRU cache with per-entry expiry.
//
// It backs lookups that are expensive to repeat but must eventually refresh,
// such as provider metadata documents:
//
//	docs := cache.NewLRU[string, *oidc.ProviderConfig](32, 24*time.Hour)
//	docs.Put(url, cfg)
//	cfg, ok := docs.Get(url)
//
// Entries are evicted when the capacity is exceeded (least recently used
// first) or lazily on access once their TTL has elapsed. A zero TTL disables
// expiry. All methods are safe for concurrent use.
package cache
