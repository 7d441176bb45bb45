// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// histogramCount extracts the sample count of one histogram series.
func histogramCount(t *testing.T, vec *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	obs, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues: %v", err)
	}
	var m io_prometheus_client.Metric
	if err := obs.(prometheus.Metric).Write(&m); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		err       error
		wantErrs  float64
	}{
		{name: "successful select", operation: "SELECT", table: "film_likes", wantErrs: 0},
		{name: "failed insert", operation: "INSERT", table: "friendships", err: errors.New("constraint"), wantErrs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, tt.table))
			RecordDBQuery(tt.operation, tt.table, 5*time.Millisecond, tt.err)
			after := testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, tt.table))
			if after-before != tt.wantErrs {
				t.Errorf("error counter delta = %v, want %v", after-before, tt.wantErrs)
			}
		})
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/films/popular", "200"))
	RecordAPIRequest("GET", "/api/v1/films/popular", "200", 3*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/films/popular", "200"))
	if after-before != 1 {
		t.Errorf("request counter delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("after inc = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("after dec = %v, want %v", got, before)
	}
}

func TestRecordRecommendation(t *testing.T) {
	emptyBefore := testutil.ToFloat64(RecommendationsServed.WithLabelValues("empty"))
	filmsBefore := testutil.ToFloat64(RecommendationsServed.WithLabelValues("films"))

	RecordRecommendation(0)
	RecordRecommendation(3)

	if got := testutil.ToFloat64(RecommendationsServed.WithLabelValues("empty")) - emptyBefore; got != 1 {
		t.Errorf("empty delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(RecommendationsServed.WithLabelValues("films")) - filmsBefore; got != 1 {
		t.Errorf("films delta = %v, want 1", got)
	}
}

func TestRecordRanking(t *testing.T) {
	before := histogramCount(t, RankingDuration, "common")
	RecordRanking("common", 2*time.Millisecond)
	RecordRanking("common", 40*time.Millisecond)
	if got := histogramCount(t, RankingDuration, "common") - before; got != 2 {
		t.Errorf("sample count delta = %d, want 2", got)
	}
}

func TestRecordRankingCache(t *testing.T) {
	hits := testutil.ToFloat64(RankingCacheHits)
	misses := testutil.ToFloat64(RankingCacheMisses)

	RecordRankingCache(true)
	RecordRankingCache(false)
	RecordRankingCache(false)

	if got := testutil.ToFloat64(RankingCacheHits) - hits; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(RankingCacheMisses) - misses; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}

// TestConcurrentRecording ensures the helpers are safe under concurrent use.
func TestConcurrentRecording(t *testing.T) {
	const workers = 20
	before := testutil.ToFloat64(LikesTotal.WithLabelValues("add"))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordLike("add")
			RecordEventAppended("LIKE", "ADD")
			RecordRanking("popular", time.Millisecond)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(LikesTotal.WithLabelValues("add")) - before; got != workers {
		t.Errorf("likes delta = %v, want %d", got, workers)
	}
}
