package domain_test

import (
	"sync"
	"testing"
	"time"

	"engagemon/internal/modules/session/domain"
)

func record(i int, e domain.Engagement) domain.Record {
	return domain.Record{
		Timestamp:  time.Date(2026, 3, 1, 9, 0, i, 0, time.UTC),
		Emotion:    "Happy",
		Engagement: e,
		Context:    "Programming",
		Sentiment:  "Positive",
	}
}

func TestBufferKeepsLastCapacityRecordsInOrder(t *testing.T) {
	t.Parallel()
	for _, capacity := range []int{1, 2, 3, 7, 16} {
		for _, n := range []int{0, 1, capacity - 1, capacity, capacity + 1, 3*capacity + 2} {
			if n < 0 {
				continue
			}
			buf, err := domain.NewBuffer(capacity)
			if err != nil {
				t.Fatalf("new buffer: %v", err)
			}
			for i := 0; i < n; i++ {
				buf.Append(record(i, domain.Engaged))
			}
			want := min(n, capacity)
			snap := buf.Snapshot()
			if len(snap) != want || buf.Len() != want || buf.Cap() != capacity {
				t.Fatalf("cap=%d n=%d: expected len %d, got snapshot %d len %d", capacity, n, want, len(snap), buf.Len())
			}
			for i, rec := range snap {
				expected := record(n-want+i, domain.Engaged)
				if !rec.Timestamp.Equal(expected.Timestamp) {
					t.Fatalf("cap=%d n=%d: position %d holds %s, expected %s", capacity, n, i, rec.Timestamp, expected.Timestamp)
				}
			}
		}
	}
}

func TestBufferEvictsOldestAtCapacity(t *testing.T) {
	t.Parallel()
	buf, err := domain.NewBuffer(3)
	if err != nil {
		t.Fatalf("new buffer: %v", err)
	}
	seq := []domain.Engagement{domain.Engaged, domain.Distracted, domain.Engaged, domain.Engaged}
	for i, e := range seq {
		buf.Append(record(i, e))
	}
	snap := buf.Snapshot()
	got := []domain.Engagement{snap[0].Engagement, snap[1].Engagement, snap[2].Engagement}
	want := []domain.Engagement{domain.Distracted, domain.Engaged, domain.Engaged}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	t.Parallel()
	buf, _ := domain.NewBuffer(2)
	buf.Append(record(0, domain.Engaged))
	snap := buf.Snapshot()
	snap[0].Emotion = "Mutated"
	if buf.Snapshot()[0].Emotion != "Happy" {
		t.Fatalf("snapshot must not alias buffer storage")
	}
}

func TestBufferRejectsNonPositiveCapacity(t *testing.T) {
	t.Parallel()
	if _, err := domain.NewBuffer(0); err == nil {
		t.Fatalf("zero capacity must fail")
	}
}

func TestConcurrentSnapshotsSeeWholeRecords(t *testing.T) {
	t.Parallel()
	buf, _ := domain.NewBuffer(8)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			buf.Append(record(i%60, domain.Engaged))
		}
	}()
	for i := 0; i < 200; i++ {
		for _, rec := range buf.Snapshot() {
			if rec.Emotion != "Happy" || rec.Engagement != domain.Engaged {
				t.Fatalf("observed partial record %+v", rec)
			}
		}
	}
	wg.Wait()
}
