package core

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned for unknown or expired import sessions.
	ErrSessionNotFound = errors.New("import session not found")
	// ErrRowNotFound is returned when a row index is not in the session.
	ErrRowNotFound = errors.New("row not found")
	// ErrRowPending is returned when a row is mid-sync and cannot change.
	ErrRowPending = errors.New("row is being synced")
	// ErrRowNotRetryable is returned when retry is asked of a row that did not fail.
	ErrRowNotRetryable = errors.New("only failed rows can be retried")
	// ErrRowNotSynced is returned when testing a row that was never stored.
	ErrRowNotSynced = errors.New("row has not been synced")
	// ErrAlreadySubmitted is returned when a tested result exists for the row.
	ErrAlreadySubmitted = errors.New("row has already been submitted")
)

// ImportSession holds the review state of one uploaded workbook.
type ImportSession struct {
	ID        string
	FileName  string
	FileSize  int64
	CreatedAt time.Time

	mu          sync.Mutex
	rows        []*ParsedRow
	totalRows   int
	skippedRows int
	workflow    Workflow
	touchedAt   time.Time
}

// SessionSnapshot is an immutable copy of an ImportSession for rendering.
type SessionSnapshot struct {
	ID             string      `json:"id"`
	FileName       string      `json:"fileName"`
	FileSize       int64       `json:"fileSize"`
	CreatedAt      time.Time   `json:"createdAt"`
	Step           Step        `json:"step"`
	CompletedSteps []Step      `json:"completedSteps"`
	TotalRows      int         `json:"totalRows"`
	SkippedRows    int         `json:"skippedRows"`
	Rows           []ParsedRow `json:"rows"`
	Summary        RowSummary  `json:"summary"`
}

// RowSummary counts rows by state.
type RowSummary struct {
	Rows      int `json:"rows"`
	Valid     int `json:"valid"`
	Invalid   int `json:"invalid"`
	Idle      int `json:"idle"`
	Pending   int `json:"pending"`
	Synced    int `json:"synced"`
	Failed    int `json:"failed"`
	Submitted int `json:"submitted"`
}

// NewImportSession builds a session from a successful parse. Every record
// is validated and starts idle; the upload step is complete and the
// session is positioned at review.
func NewImportSession(fileName string, fileSize int64, result *ParseResult, now time.Time) *ImportSession {
	s := &ImportSession{
		ID:          uuid.NewString(),
		FileName:    fileName,
		FileSize:    fileSize,
		CreatedAt:   now,
		rows:        make([]*ParsedRow, 0, len(result.Records)),
		totalRows:   result.TotalRows,
		skippedRows: result.SkippedRows,
		workflow:    NewWorkflow(),
		touchedAt:   now,
	}

	for i, rec := range result.Records {
		errs := ValidateMasterData(rec)
		s.rows = append(s.rows, &ParsedRow{
			Index:  i,
			Data:   rec,
			Valid:  len(errs) == 0,
			Errors: errs,
			Status: StatusIdle,
		})
	}

	s.workflow.Complete(StepUpload)
	s.workflow.current = StepReview
	return s
}

// Snapshot returns a deep copy of the session state.
func (s *ImportSession) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := SessionSnapshot{
		ID:             s.ID,
		FileName:       s.FileName,
		FileSize:       s.FileSize,
		CreatedAt:      s.CreatedAt,
		Step:           s.workflow.Current(),
		CompletedSteps: s.workflow.Completed(),
		TotalRows:      s.totalRows,
		SkippedRows:    s.skippedRows,
		Rows:           make([]ParsedRow, 0, len(s.rows)),
	}
	for _, r := range s.rows {
		snap.Rows = append(snap.Rows, copyRow(r))
	}
	snap.Summary = summarize(snap.Rows)
	return snap
}

// Row returns a copy of the row with the given index.
func (s *ImportSession) Row(index int) (ParsedRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.find(index)
	if r == nil {
		return ParsedRow{}, ErrRowNotFound
	}
	return copyRow(r), nil
}

// UpdateRow merges a patch into one row and revalidates only that row.
// Pending rows cannot be edited.
func (s *ImportSession) UpdateRow(index int, patch RowPatch) (ParsedRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.find(index)
	if r == nil {
		return ParsedRow{}, ErrRowNotFound
	}
	if r.Status == StatusPending {
		return ParsedRow{}, ErrRowPending
	}

	data, typeErrs := ApplyPatch(r.Data, patch)
	errs := ValidateMasterData(data)
	for k, v := range typeErrs {
		errs[k] = v
	}

	r.Data = data
	r.Errors = errs
	r.Valid = len(errs) == 0
	return copyRow(r), nil
}

// RemoveRow drops a row. Results arriving later for it are discarded.
func (s *ImportSession) RemoveRow(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.rows {
		if r.Index == index {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return ErrRowNotFound
}

// RetryRow re-arms a failed row so the next sync picks it up.
func (s *ImportSession) RetryRow(index int) (ParsedRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.find(index)
	if r == nil {
		return ParsedRow{}, ErrRowNotFound
	}
	if r.Status != StatusError {
		return ParsedRow{}, ErrRowNotRetryable
	}
	r.Status = StatusIdle
	r.Message = ""
	return copyRow(r), nil
}

// Advance moves the session workflow to step.
func (s *ImportSession) Advance(step Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workflow.Advance(step)
}

// claimForSync marks every valid idle or failed row pending and returns
// them as sync items in row order. Success and pending rows are left alone.
func (s *ImportSession) claimForSync() []SyncItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []SyncItem
	for _, r := range s.rows {
		if !r.Valid || r.Status == StatusSuccess || r.Status == StatusPending {
			continue
		}
		r.Status = StatusPending
		r.Message = ""
		items = append(items, SyncItem{Index: r.Index, Data: r.Data})
	}
	return items
}

// applyResults merges per-row outcomes. Only pending rows change, so each
// row leaves pending at most once per claim.
func (s *ImportSession) applyResults(results []SyncResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, res := range results {
		r := s.find(res.Index)
		if r == nil || r.Status != StatusPending {
			continue
		}
		if res.Success {
			r.Status = StatusSuccess
			r.Message = ""
		} else {
			r.Status = StatusError
			r.Message = res.Message
		}
	}
}

// failPending marks the still-pending rows among items as errored.
func (s *ImportSession) failPending(items []SyncItem, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range items {
		if r := s.find(it.Index); r != nil && r.Status == StatusPending {
			r.Status = StatusError
			r.Message = message
		}
	}
}

// finishSync completes the review step once at least one row is stored
// and nothing is left in flight.
func (s *ImportSession) finishSync() {
	s.mu.Lock()
	defer s.mu.Unlock()

	synced := false
	for _, r := range s.rows {
		if r.Status == StatusPending {
			return
		}
		if r.Status == StatusSuccess {
			synced = true
		}
	}
	if synced {
		s.workflow.Complete(StepReview)
	}
}

// testableRow returns a copy of a synced, unsubmitted row.
func (s *ImportSession) testableRow(index int) (ParsedRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.find(index)
	if r == nil {
		return ParsedRow{}, ErrRowNotFound
	}
	if r.Status != StatusSuccess {
		return ParsedRow{}, ErrRowNotSynced
	}
	if r.Submitted {
		return ParsedRow{}, ErrAlreadySubmitted
	}
	return copyRow(r), nil
}

// markSubmitted flags a row as tested and completes the testing step when
// every synced row has a result.
func (s *ImportSession) markSubmitted(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.find(index)
	if r == nil {
		return ErrRowNotFound
	}
	if r.Submitted {
		return ErrAlreadySubmitted
	}
	r.Submitted = true

	for _, other := range s.rows {
		if other.Status == StatusSuccess && !other.Submitted {
			return nil
		}
	}
	s.workflow.Complete(StepTesting)
	return nil
}

// failedRows returns invalid or errored rows for export.
func (s *ImportSession) failedRows() []ParsedRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ParsedRow
	for _, r := range s.rows {
		if !r.Valid || r.Status == StatusError {
			out = append(out, copyRow(r))
		}
	}
	return out
}

func (s *ImportSession) touch(now time.Time) {
	s.mu.Lock()
	s.touchedAt = now
	s.mu.Unlock()
}

func (s *ImportSession) lastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}

func (s *ImportSession) find(index int) *ParsedRow {
	for _, r := range s.rows {
		if r.Index == index {
			return r
		}
	}
	return nil
}

func copyRow(r *ParsedRow) ParsedRow {
	c := *r
	if r.Errors != nil {
		c.Errors = make(map[string]string, len(r.Errors))
		for k, v := range r.Errors {
			c.Errors[k] = v
		}
	}
	return c
}

func summarize(rows []ParsedRow) RowSummary {
	sum := RowSummary{Rows: len(rows)}
	for _, r := range rows {
		if r.Valid {
			sum.Valid++
		} else {
			sum.Invalid++
		}
		switch r.Status {
		case StatusIdle:
			sum.Idle++
		case StatusPending:
			sum.Pending++
		case StatusSuccess:
			sum.Synced++
		case StatusError:
			sum.Failed++
		}
		if r.Submitted {
			sum.Submitted++
		}
	}
	return sum
}

// SessionStore keeps import sessions in memory.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*ImportSession
	now      func() time.Time
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*ImportSession),
		now:      time.Now,
	}
}

// Put registers a session.
func (st *SessionStore) Put(s *ImportSession) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

// Get returns a session and refreshes its idle timer.
func (st *SessionStore) Get(id string) (*ImportSession, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(st.now())
	return s, nil
}

// Delete discards a session. In-flight syncs keep running but their
// results are no longer observable.
func (st *SessionStore) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	return nil
}

// List returns live sessions ordered by creation time.
func (st *SessionStore) List() []*ImportSession {
	st.mu.RLock()
	out := make([]*ImportSession, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s)
	}
	st.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// PurgeExpired removes sessions untouched for longer than ttl and reports how many were removed.
func (st *SessionStore) PurgeExpired(ttl time.Duration) int {
	cutoff := st.now().Add(-ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	purged := 0
	for id, s := range st.sessions {
		if s.lastTouched().Before(cutoff) {
			delete(st.sessions, id)
			purged++
		}
	}
	return purged
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
