// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package cache provides an in-process, generic LRU cache with TTL expiry.

The ranker keeps its like-count and genre snapshot here so that bursts of
popular-film queries read the store once per TTL window. Likes and unlikes
remove the snapshot explicitly, which bounds staleness within a process.

# Usage

	snapshots := cache.NewLRU[*Snapshot](16, 2*time.Second)
	snapshots.Set("ranking:snapshot", snap)
	if snap, ok := snapshots.Get("ranking:snapshot"); ok {
	    // serve from cache
	}

# Thread Safety

All operations take a single mutex and are safe for concurrent use.
*/
package cache
