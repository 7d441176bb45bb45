// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package cache

import "time"

// Cacher is the contract consumers depend on, so a different eviction
// strategy can be swapped in without touching call sites.
//
// Usage:
//
//	var c cache.Cacher[*Snapshot] = cache.NewLRU[*Snapshot](16, 2*time.Second)
//	c.Set("ranking:snapshot", snap)
//	if snap, ok := c.Get("ranking:snapshot"); ok {
//	    // Use cached value
//	}
type Cacher[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
	SetWithTTL(key string, value V, ttl time.Duration)
	Remove(key string) bool
	Clear()
	Stats() Stats
}

// Stats is a point-in-time view of cache effectiveness.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// HitRate returns hits as a percentage of all lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

var _ Cacher[int] = (*LRU[int])(nil)
