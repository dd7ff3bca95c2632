package generation

import (
	"net/url"
	"strings"
	"sync"
	"time"
)

// ProviderKeys holds per-tenant upstream credentials.
type ProviderKeys struct {
	OpenAIKey string
	GeminiKey string
}

type tenantEntry struct {
	keys      ProviderKeys
	updatedAt time.Time
}

// TenantKeys maps a normalized site identifier to provider credentials, with a
// process-wide fallback to globally configured keys. Entries are swept after a
// TTL so stale tenant overrides do not live for the process lifetime.
type TenantKeys struct {
	mu       sync.RWMutex
	entries  map[string]tenantEntry
	fallback ProviderKeys
	ttl      time.Duration
}

// NewTenantKeys constructs the store with global fallback credentials.
func NewTenantKeys(fallback ProviderKeys, ttl time.Duration) *TenantKeys {
	return &TenantKeys{
		entries:  make(map[string]tenantEntry),
		fallback: fallback,
		ttl:      ttl,
	}
}

// NormalizeSite reduces a site URL to a bare host: scheme and path dropped,
// "www." prefix stripped, lower-cased.
func NormalizeSite(site string) string {
	if site == "" {
		return ""
	}
	u, err := url.Parse(site)
	host := site
	if err == nil {
		if u.Host != "" {
			host = u.Host
		} else {
			host = u.Path
		}
	}
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	return strings.TrimPrefix(host, "www.")
}

// Upsert stores non-empty keys for a site, keeping existing values for keys
// not supplied.
func (t *TenantKeys) Upsert(site, openaiKey, geminiKey string) {
	s := NormalizeSite(site)
	if s == "" {
		return
	}
	openaiKey = strings.TrimSpace(openaiKey)
	geminiKey = strings.TrimSpace(geminiKey)
	if openaiKey == "" && geminiKey == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	entry := t.entries[s]
	if openaiKey != "" {
		entry.keys.OpenAIKey = openaiKey
	}
	if geminiKey != "" {
		entry.keys.GeminiKey = geminiKey
	}
	entry.updatedAt = time.Now()
	t.entries[s] = entry
}

// Resolve returns the site's keys merged over the global fallback.
func (t *TenantKeys) Resolve(site string) ProviderKeys {
	resolved := t.fallback

	s := NormalizeSite(site)
	if s == "" {
		return resolved
	}

	t.mu.RLock()
	entry, ok := t.entries[s]
	t.mu.RUnlock()
	if !ok {
		return resolved
	}
	if entry.keys.OpenAIKey != "" {
		resolved.OpenAIKey = entry.keys.OpenAIKey
	}
	if entry.keys.GeminiKey != "" {
		resolved.GeminiKey = entry.keys.GeminiKey
	}
	return resolved
}

// Sweep evicts entries older than the TTL and returns how many were removed.
func (t *TenantKeys) Sweep(now time.Time) int {
	if t.ttl <= 0 {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for site, entry := range t.entries {
		if now.Sub(entry.updatedAt) > t.ttl {
			delete(t.entries, site)
			removed++
		}
	}
	return removed
}
