package telemetry_test

import (
	"testing"
	"time"

	"hangul-fuzzy-search/pkg/telemetry"
)

func TestRecordSuccessAccumulates(t *testing.T) {
	tel := telemetry.New(time.Unix(1000, 0))
	tel.RecordSuccess(telemetry.SyncSearch, 10*time.Millisecond, 5)
	tel.RecordSuccess(telemetry.SyncSearch, 30*time.Millisecond, 3)

	snap := tel.Snapshot()
	k := snap.Kinds[telemetry.SyncSearch.String()]
	if k.Success != 2 {
		t.Errorf("Success = %d, want 2", k.Success)
	}
	if k.ReturnedItems != 8 {
		t.Errorf("ReturnedItems = %d, want 8", k.ReturnedItems)
	}
	if got, want := k.MeanLatencyMs, 20.0; got != want {
		t.Errorf("MeanLatencyMs = %v, want %v", got, want)
	}
}

func TestRecordCancelledAndFailureAreSeparateFromSuccess(t *testing.T) {
	tel := telemetry.New(time.Unix(0, 0))
	tel.RecordSuccess(telemetry.AsyncSimilar, time.Millisecond, 1)
	tel.RecordCancelled(telemetry.AsyncSimilar, time.Millisecond)
	tel.RecordFailure(telemetry.AsyncSimilar, time.Millisecond)

	k := tel.Snapshot().Kinds[telemetry.AsyncSimilar.String()]
	if k.Success != 1 || k.Cancelled != 1 || k.Failure != 1 {
		t.Errorf("got success=%d cancelled=%d failure=%d, want 1,1,1", k.Success, k.Cancelled, k.Failure)
	}
}

func TestRecordCacheHit(t *testing.T) {
	tel := telemetry.New(time.Unix(0, 0))
	tel.RecordCacheHit()
	tel.RecordCacheHit()
	if got := tel.Snapshot().CacheHits; got != 2 {
		t.Errorf("CacheHits = %d, want 2", got)
	}
}

func TestResetZeroesCountersAndRestampsStart(t *testing.T) {
	tel := telemetry.New(time.Unix(0, 0))
	tel.RecordSuccess(telemetry.SyncExplain, time.Millisecond, 10)
	tel.RecordCacheHit()

	restamp := time.Unix(5000, 0)
	tel.Reset(restamp)

	snap := tel.Snapshot()
	if snap.CacheHits != 0 {
		t.Errorf("CacheHits = %d after Reset, want 0", snap.CacheHits)
	}
	k := snap.Kinds[telemetry.SyncExplain.String()]
	if k.Success != 0 || k.ReturnedItems != 0 {
		t.Errorf("counters not zeroed after Reset: %+v", k)
	}
	if !snap.StartedAt.Equal(restamp) {
		t.Errorf("StartedAt = %v, want %v", snap.StartedAt, restamp)
	}
}

func TestSnapshotMeanLatencyZeroWithNoOperations(t *testing.T) {
	tel := telemetry.New(time.Unix(0, 0))
	snap := tel.Snapshot()
	for kind, k := range snap.Kinds {
		if k.MeanLatencyMs != 0 {
			t.Errorf("kind %s: MeanLatencyMs = %v with no operations, want 0", kind, k.MeanLatencyMs)
		}
	}
}
