package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeCreator records batches and answers each row with success unless
// told otherwise.
type fakeCreator struct {
	mu      sync.Mutex
	batches [][]SyncItem

	// Keyed by row index: fail the whole batch holding the row, fail the
	// row with a message, or leave the row out of the results.
	failBatchWith map[int]bool
	rowMessages   map[int]string
	dropResultFor map[int]bool

	delay          time.Duration
	inFlight, peak atomic.Int32
}

func (f *fakeCreator) CreateBatch(ctx context.Context, items []SyncItem) ([]SyncResult, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	f.batches = append(f.batches, append([]SyncItem(nil), items...))
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	for _, it := range items {
		if f.failBatchWith[it.Index] {
			return nil, errors.New("connection reset by peer")
		}
	}

	var out []SyncResult
	for _, it := range items {
		if f.dropResultFor[it.Index] {
			continue
		}
		if msg, ok := f.rowMessages[it.Index]; ok {
			out = append(out, SyncResult{Index: it.Index, Message: msg})
			continue
		}
		out = append(out, SyncResult{Index: it.Index, Success: true})
	}
	return out, nil
}

func (f *fakeCreator) sentIndexes() map[int]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[int]int)
	for _, b := range f.batches {
		for _, it := range b {
			counts[it.Index]++
		}
	}
	return counts
}

func TestSyncSession_AllRowsSucceed(t *testing.T) {
	sess := newTestSession(testRecords(45))
	creator := &fakeCreator{}

	report := syncSession(context.Background(), sess, creator, SyncOptions{})

	if report.Attempted != 45 || report.Succeeded != 45 || report.Failed != 0 {
		t.Errorf("report = %+v", report)
	}
	if len(creator.batches) != 3 {
		t.Errorf("sent %d batches, want 3", len(creator.batches))
	}
	if snap := sess.Snapshot(); snap.Summary.Synced != 45 {
		t.Errorf("Synced = %d, want 45", snap.Summary.Synced)
	}
	if !sess.workflow.IsComplete(StepReview) {
		t.Error("review step not complete after a successful sync")
	}
}

func TestSyncSession_BatchFailureIsolated(t *testing.T) {
	sess := newTestSession(testRecords(40))
	creator := &fakeCreator{failBatchWith: map[int]bool{0: true}}

	report := syncSession(context.Background(), sess, creator, SyncOptions{BatchSize: 20})

	if report.FailedBatches != 1 || report.Succeeded != 20 || report.Failed != 20 {
		t.Errorf("report = %+v", report)
	}
	for _, r := range sess.Snapshot().Rows {
		switch {
		case r.Index < 20:
			if r.Status != StatusError || r.Message != "Network or Sync Error" {
				t.Errorf("row %d = %s %q, want batch error", r.Index, r.Status, r.Message)
			}
		default:
			if r.Status != StatusSuccess {
				t.Errorf("row %d = %s, want success", r.Index, r.Status)
			}
		}
	}
}

func TestSyncSession_PerRowFailures(t *testing.T) {
	sess := newTestSession(testRecords(3))
	creator := &fakeCreator{
		rowMessages:   map[int]string{1: "A record with this ID already exists"},
		dropResultFor: map[int]bool{2: true},
	}

	report := syncSession(context.Background(), sess, creator, SyncOptions{})
	if report.Succeeded != 1 || report.Failed != 2 || report.FailedBatches != 0 {
		t.Errorf("report = %+v", report)
	}

	rows := sess.Snapshot().Rows
	if rows[1].Message != "A record with this ID already exists" {
		t.Errorf("row 1 message = %q", rows[1].Message)
	}
	if rows[2].Status != StatusError || rows[2].Message != "No result returned for row" {
		t.Errorf("row 2 = %s %q", rows[2].Status, rows[2].Message)
	}
}

func TestSyncSession_ConcurrencyLimit(t *testing.T) {
	sess := newTestSession(testRecords(12))
	creator := &fakeCreator{delay: 20 * time.Millisecond}

	syncSession(context.Background(), sess, creator, SyncOptions{BatchSize: 1, MaxConcurrent: 3})

	if peak := creator.peak.Load(); peak > 3 {
		t.Errorf("peak concurrent batches = %d, want <= 3", peak)
	}
	if len(creator.batches) != 12 {
		t.Errorf("sent %d batches, want 12", len(creator.batches))
	}
}

func TestSyncSession_SuccessfulRowsNotResent(t *testing.T) {
	recs := testRecords(4)
	recs[3].Model = ""
	sess := newTestSession(recs)
	creator := &fakeCreator{rowMessages: map[int]string{2: "duplicate"}}

	syncSession(context.Background(), sess, creator, SyncOptions{})

	second := syncSession(context.Background(), sess, creator, SyncOptions{})
	if second.Attempted != 1 {
		t.Errorf("second sync attempted %d rows, want 1", second.Attempted)
	}

	delete(creator.rowMessages, 2)
	if _, err := sess.RetryRow(2); err != nil {
		t.Fatalf("RetryRow() error: %v", err)
	}
	syncSession(context.Background(), sess, creator, SyncOptions{})

	sent := creator.sentIndexes()
	if sent[0] != 1 || sent[1] != 1 {
		t.Errorf("successful rows resent: %v", sent)
	}
	if sent[3] != 0 {
		t.Errorf("invalid row was sent %d times", sent[3])
	}
	if row, _ := sess.Row(2); row.Status != StatusSuccess {
		t.Errorf("row 2 after retry = %s, want success", row.Status)
	}
}

func TestSyncSession_NothingToSend(t *testing.T) {
	recs := testRecords(1)
	recs[0].Model = ""
	sess := newTestSession(recs)
	creator := &fakeCreator{}

	report := syncSession(context.Background(), sess, creator, SyncOptions{})
	if report.Attempted != 0 || len(creator.batches) != 0 {
		t.Errorf("report = %+v, batches = %d", report, len(creator.batches))
	}
}

func TestChunkItems(t *testing.T) {
	items := make([]SyncItem, 45)
	chunks := chunkItems(items, 20)

	if len(chunks) != 3 {
		t.Fatalf("len(chunks) = %d, want 3", len(chunks))
	}
	sizes := []int{len(chunks[0]), len(chunks[1]), len(chunks[2])}
	if sizes[0] != 20 || sizes[1] != 20 || sizes[2] != 5 {
		t.Errorf("chunk sizes = %v, want [20 20 5]", sizes)
	}
	if got := chunkItems(nil, 20); len(got) != 0 {
		t.Errorf("chunkItems(nil) = %v, want empty", got)
	}
}
