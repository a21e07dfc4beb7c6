package resolve

import (
	"context"
	"fmt"
	"testing"

	"lyricsync/internal/segment"
)

func TestResolveBatchMatchesSequential(t *testing.T) {
	transcriber := &fakeTranscriber{name: "stt", transcript: transcriptOf("three", "four", "five", "six")}
	aligner := &fakeAligner{name: "align", result: scenarioAlignment()}
	resolver := newTestResolver(t, singleStrategyOptions(transcriber, aligner))

	reqs := make([]Request, 5)
	for i := range reqs {
		reqs[i] = Request{
			SongID:          fmt.Sprintf("song-%d", i),
			ClipAudio:       []byte(fmt.Sprintf("clip-%d", i)),
			ClipDurationSec: 6,
			SongDurationSec: 12,
		}
	}

	sequential := make([]segment.SegmentResolution, len(reqs))
	for i, req := range reqs {
		sequential[i] = resolver.Resolve(context.Background(), req)
	}

	batched := resolver.ResolveBatch(context.Background(), reqs, 3)
	if len(batched) != len(reqs) {
		t.Fatalf("batch returned %d results, want %d", len(batched), len(reqs))
	}
	for i := range reqs {
		if batched[i].SongID != sequential[i].SongID {
			t.Errorf("result %d song = %s, want %s (order must be preserved)", i, batched[i].SongID, sequential[i].SongID)
		}
		if batched[i].Status != sequential[i].Status || batched[i].ResolvedStartSec != sequential[i].ResolvedStartSec {
			t.Errorf("result %d differs from sequential: %+v vs %+v", i, batched[i], sequential[i])
		}
	}
}

func TestResolveBatchZeroLimit(t *testing.T) {
	transcriber := &fakeTranscriber{name: "stt", transcript: transcriptOf("three", "four", "five", "six")}
	aligner := &fakeAligner{name: "align", result: scenarioAlignment()}
	resolver := newTestResolver(t, singleStrategyOptions(transcriber, aligner))

	results := resolver.ResolveBatch(context.Background(), []Request{scenarioRequest()}, 0)
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Status != segment.StatusResolved {
		t.Errorf("status = %s, want RESOLVED", results[0].Status)
	}
}

func TestCacheKeyStability(t *testing.T) {
	a := CacheKey([]byte("audio"), "song")
	b := CacheKey([]byte("audio"), "song")
	if a != b {
		t.Errorf("same inputs produced different keys: %s vs %s", a, b)
	}
	if CacheKey([]byte("audio"), "other") == a {
		t.Error("different songs must produce different keys")
	}
	if CacheKey([]byte("other"), "song") == a {
		t.Error("different audio must produce different keys")
	}
	if len(a) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(a))
	}
}
