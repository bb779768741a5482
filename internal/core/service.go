package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

var (
	// ErrSerialRequired is returned when a result is submitted without a serial number.
	ErrSerialRequired = errors.New("serial number is required")
	// ErrInvalidDateRange is returned for malformed or reversed report dates.
	ErrInvalidDateRange = errors.New("invalid date range")
)

// reportDateLayout is the query format of report dates.
const reportDateLayout = "2006-01-02"

// MasterDataStore stores and lists master data.
type MasterDataStore interface {
	BatchCreator
	ListMasterData(ctx context.Context) ([]MasterData, error)
	LatestMasterData(ctx context.Context) (*MasterData, error)
}

// LiveReadingSource returns the newest reading written by the test rig.
type LiveReadingSource interface {
	LatestLiveReading(ctx context.Context) (*LiveReading, error)
}

// TestedDataWriter stores one tested result.
type TestedDataWriter interface {
	CreateTestedData(ctx context.Context, in TestedDataInput) (*TestedData, error)
}

// TestedDataReader backs the report endpoints.
type TestedDataReader interface {
	ListTestedData(ctx context.Context, f TestedDataFilter) ([]TestedData, error)
	DistinctModels(ctx context.Context) ([]string, error)
	DailyStats(ctx context.Context, from, to time.Time) (DailyStats, error)
}

// Store is everything the service needs from persistence. *Repository
// implements it.
type Store interface {
	MasterDataStore
	LiveReadingSource
	TestedDataWriter
	TestedDataReader
}

// ServiceConfig holds the tunables of a Service. Zero values use defaults.
type ServiceConfig struct {
	Sync                 SyncOptions
	SessionTTL           time.Duration
	MaxConcurrentImports int
	ImportWait           time.Duration
}

// Service coordinates import sessions, sync, testing and reports.
type Service struct {
	store    Store
	sessions *SessionStore
	limiter  *ImportLimiter
	syncOpts SyncOptions
	ttl      time.Duration
	now      func() time.Time

	// submitMu serialises the check-insert-mark sequence of SubmitRow.
	submitMu sync.Mutex
}

// NewService creates a Service backed by store.
func NewService(store Store, cfg ServiceConfig) *Service {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	return &Service{
		store:    store,
		sessions: NewSessionStore(),
		limiter:  NewImportLimiter(cfg.MaxConcurrentImports, cfg.ImportWait),
		syncOpts: cfg.Sync.withDefaults(),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Import parses a workbook into a new review session. Parse failures are
// returned as *ImportError and create no session.
func (s *Service) Import(ctx context.Context, fileName string, size int64, r io.Reader) (SessionSnapshot, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return SessionSnapshot{}, err
	}
	defer s.limiter.Release()

	logger := slog.Default().With("file", fileName, "size", size, "client_ip", ClientIPFromContext(ctx))
	start := time.Now()

	result, err := ParseWorkbook(r)
	if err != nil {
		logger.Info("import rejected", "error", err)
		return SessionSnapshot{}, err
	}

	sess := NewImportSession(fileName, size, result, s.now())
	s.sessions.Put(sess)

	snap := sess.Snapshot()
	logger.Info("import parsed",
		"session_id", sess.ID,
		"records", len(result.Records),
		"total_rows", result.TotalRows,
		"skipped_rows", result.SkippedRows,
		"invalid_rows", snap.Summary.Invalid,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snap, nil
}

// Session returns a snapshot of an import session.
func (s *Service) Session(id string) (SessionSnapshot, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return SessionSnapshot{}, err
	}
	return sess.Snapshot(), nil
}

// Sessions returns snapshots of every live session, oldest first.
func (s *Service) Sessions() []SessionSnapshot {
	list := s.sessions.List()
	out := make([]SessionSnapshot, 0, len(list))
	for _, sess := range list {
		out = append(out, sess.Snapshot())
	}
	return out
}

// ResetSession discards a session and everything staged in it.
func (s *Service) ResetSession(id string) error {
	if err := s.sessions.Delete(id); err != nil {
		return err
	}
	slog.Info("import session reset", "session_id", id)
	return nil
}

// UpdateRow merges patch into one row and revalidates it.
func (s *Service) UpdateRow(id string, index int, patch RowPatch) (ParsedRow, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return ParsedRow{}, err
	}
	return sess.UpdateRow(index, patch)
}

// RemoveRow drops one row from the session.
func (s *Service) RemoveRow(id string, index int) error {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return err
	}
	return sess.RemoveRow(index)
}

// RetryRow re-arms one failed row for the next sync.
func (s *Service) RetryRow(id string, index int) (ParsedRow, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return ParsedRow{}, err
	}
	return sess.RetryRow(index)
}

// SyncSession sends every eligible row to the store. The run is detached
// from ctx cancellation and bounded by the sync timeout, so a client
// disconnect never leaves rows stuck pending.
func (s *Service) SyncSession(ctx context.Context, id string) (SyncReport, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return SyncReport{}, err
	}

	syncCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.syncOpts.Timeout)
	defer cancel()

	return syncSession(syncCtx, sess, s.store, s.syncOpts), nil
}

// AdvanceStep moves the session workflow to step.
func (s *Service) AdvanceStep(id string, step Step) (SessionSnapshot, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return SessionSnapshot{}, err
	}
	if err := sess.Advance(step); err != nil {
		return SessionSnapshot{}, err
	}
	return sess.Snapshot(), nil
}

// FailedRowsReport writes the invalid and errored rows of a session as xlsx.
func (s *Service) FailedRowsReport(id string, w io.Writer) error {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return err
	}
	return WriteFailedRows(w, sess.failedRows())
}

// RowEvaluation is a live reading judged against one synced row.
type RowEvaluation struct {
	Row        ParsedRow   `json:"row"`
	Reading    LiveReading `json:"reading"`
	Evaluation Evaluation  `json:"evaluation"`
}

// EvaluateRow checks the newest live reading against a synced row.
func (s *Service) EvaluateRow(ctx context.Context, id string, index int) (RowEvaluation, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return RowEvaluation{}, err
	}
	row, err := sess.testableRow(index)
	if err != nil {
		return RowEvaluation{}, err
	}
	reading, err := s.store.LatestLiveReading(ctx)
	if err != nil {
		return RowEvaluation{}, err
	}
	return RowEvaluation{
		Row:        row,
		Reading:    *reading,
		Evaluation: Evaluate(row.Data, *reading),
	}, nil
}

// SubmitRow evaluates the newest live reading for a row and stores the
// result under serialNo. Each row accepts one result.
func (s *Service) SubmitRow(ctx context.Context, id string, index int, serialNo string) (*TestedData, error) {
	serialNo = strings.TrimSpace(serialNo)
	if serialNo == "" {
		return nil, ErrSerialRequired
	}

	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}

	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	row, err := sess.testableRow(index)
	if err != nil {
		return nil, err
	}
	reading, err := s.store.LatestLiveReading(ctx)
	if err != nil {
		return nil, err
	}

	eval := Evaluate(row.Data, *reading)
	in := TestedResult(row.Data, *reading, eval, serialNo)
	in.DateTime = s.now()

	stored, err := s.store.CreateTestedData(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := sess.markSubmitted(index); err != nil {
		return nil, err
	}

	slog.Info("tested result stored",
		"session_id", id,
		"row", index,
		"model", in.ModelName,
		"serial_no", serialNo,
		"final", eval.Final,
	)
	return stored, nil
}

// ListMasterData returns every stored master data row.
func (s *Service) ListMasterData(ctx context.Context) ([]MasterData, error) {
	return s.store.ListMasterData(ctx)
}

// LatestMasterData returns the newest stored master data row.
func (s *Service) LatestMasterData(ctx context.Context) (*MasterData, error) {
	return s.store.LatestMasterData(ctx)
}

// LatestLiveReading returns the newest rig reading.
func (s *Service) LatestLiveReading(ctx context.Context) (*LiveReading, error) {
	return s.store.LatestLiveReading(ctx)
}

// ReportFilter builds a TestedDataFilter from YYYY-MM-DD dates in the
// local zone. An empty from means today; an empty to means from. The
// range covers both days in full.
func (s *Service) ReportFilter(from, to, model string) (TestedDataFilter, error) {
	now := s.now()
	start := startOfDay(now)

	if from != "" {
		t, err := time.ParseInLocation(reportDateLayout, from, now.Location())
		if err != nil {
			return TestedDataFilter{}, fmt.Errorf("%w: from %q", ErrInvalidDateRange, from)
		}
		start = t
	}

	end := start
	if to != "" {
		t, err := time.ParseInLocation(reportDateLayout, to, now.Location())
		if err != nil {
			return TestedDataFilter{}, fmt.Errorf("%w: to %q", ErrInvalidDateRange, to)
		}
		end = t
	}
	if end.Before(start) {
		return TestedDataFilter{}, fmt.Errorf("%w: %s is before %s", ErrInvalidDateRange, to, from)
	}

	return TestedDataFilter{
		From:  start,
		To:    end.AddDate(0, 0, 1),
		Model: strings.TrimSpace(model),
	}, nil
}

// TestedReport writes tested results matching f as xlsx.
func (s *Service) TestedReport(ctx context.Context, f TestedDataFilter, w io.Writer) (int, error) {
	rows, err := s.store.ListTestedData(ctx, f)
	if err != nil {
		return 0, err
	}
	if err := WriteTestedReport(w, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Models lists model names that have tested results.
func (s *Service) Models(ctx context.Context) ([]string, error) {
	return s.store.DistinctModels(ctx)
}

// TodayStats counts results recorded since local midnight.
func (s *Service) TodayStats(ctx context.Context) (DailyStats, error) {
	from := startOfDay(s.now())
	return s.store.DailyStats(ctx, from, from.AddDate(0, 0, 1))
}

// PurgeExpiredSessions drops sessions idle for longer than the session TTL.
func (s *Service) PurgeExpiredSessions() int {
	return s.sessions.PurgeExpired(s.ttl)
}

// ServiceStatus is reported by the health endpoint.
type ServiceStatus struct {
	Sessions int                 `json:"sessions"`
	Imports  ImportLimiterStatus `json:"imports"`
}

// Status returns live session and parse-slot counts.
func (s *Service) Status() ServiceStatus {
	return ServiceStatus{
		Sessions: s.sessions.Len(),
		Imports:  s.limiter.Status(),
	}
}

// WaitForImports blocks until in-flight parses finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
