package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	db "github.com/JonMunkholm/motorlab/internal/database"
	"github.com/jackc/pgx/v5"
)

// ErrNoLiveReading is returned when the rig has not written any reading yet.
var ErrNoLiveReading = errors.New("no live reading available")

// ErrNoMasterData is returned when master data has never been synced.
var ErrNoMasterData = errors.New("no master data stored")

// Repository stores master data and tested results in PostgreSQL.
type Repository struct {
	db  TxStarter
	now func() time.Time
}

// NewRepository returns a Repository backed by pool.
func NewRepository(pool TxStarter) *Repository {
	return &Repository{db: pool, now: time.Now}
}

// CreateBatch re-validates and inserts every item inside one transaction.
// Each insert runs under its own savepoint so a failing row does not abort
// the others. An error is returned only when the batch as a whole could
// not be written.
func (r *Repository) CreateBatch(ctx context.Context, items []SyncItem) ([]SyncResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	q := db.New(tx)
	now := r.now()
	results := make([]SyncResult, 0, len(items))

	for i, item := range items {
		if errs := ValidateMasterData(item.Data); len(errs) > 0 {
			results = append(results, SyncResult{
				Index:   item.Index,
				Message: "Validation failed: " + ValidationMessages(errs),
			})
			continue
		}

		savepoint := fmt.Sprintf("sp_%d", i)
		if _, err := tx.Exec(ctx, "SAVEPOINT "+savepoint); err != nil {
			return nil, fmt.Errorf("create savepoint: %w", err)
		}

		row, err := q.CreateMasterData(ctx, masterDataParams(item.Data, now))
		if err != nil {
			_, _ = tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+savepoint)
			results = append(results, SyncResult{
				Index:   item.Index,
				Message: MapError(err).Message,
			})
			continue
		}

		_, _ = tx.Exec(ctx, "RELEASE SAVEPOINT "+savepoint)

		stored := masterDataFromRow(row)
		results = append(results, SyncResult{Index: item.Index, Success: true, Data: &stored})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return results, nil
}

// ListMasterData returns all stored master data in insertion order.
func (r *Repository) ListMasterData(ctx context.Context) ([]MasterData, error) {
	rows, err := db.New(r.db).ListMasterData(ctx)
	if err != nil {
		return nil, fmt.Errorf("list master data: %w", err)
	}
	out := make([]MasterData, 0, len(rows))
	for _, row := range rows {
		out = append(out, masterDataFromRow(row))
	}
	return out, nil
}

// LatestMasterData returns the most recently stored master data row.
func (r *Repository) LatestMasterData(ctx context.Context) (*MasterData, error) {
	row, err := db.New(r.db).GetLatestMasterData(ctx)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoMasterData
	}
	if err != nil {
		return nil, fmt.Errorf("latest master data: %w", err)
	}
	md := masterDataFromRow(row)
	return &md, nil
}

// LatestLiveReading returns the newest row written by the test rig.
func (r *Repository) LatestLiveReading(ctx context.Context) (*LiveReading, error) {
	row, err := db.New(r.db).GetLatestLiveTestingData(ctx)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoLiveReading
	}
	if err != nil {
		return nil, fmt.Errorf("latest live reading: %w", err)
	}
	return &LiveReading{
		ID:                     row.ID,
		DateTime:               FromPgTimestamptz(row.DateTime),
		BeforeNoLoadTest:       FromPgFloat8(row.BeforeNoLoadTest),
		AfterNoLoadTest:        FromPgFloat8(row.AfterNoLoadTest),
		NoLoadRatedVolt:        FromPgFloat8(row.NoLoadRatedVolt),
		NoLoadCurrent:          FromPgFloat8(row.NoLoadCurrent),
		NoLoadPower:            FromPgFloat8(row.NoLoadPower),
		NoLoadFrequency:        FromPgFloat8(row.NoLoadFrequency),
		NoLoadRPM:              FromPgFloat8(row.NoLoadRpm),
		DirectionClockWise:     row.DirectionClockWise.Valid && row.DirectionClockWise.Bool,
		DirectionAntiClockWise: row.DirectionAntiClockWise,
	}, nil
}

// CreateTestedData stores one test result.
func (r *Repository) CreateTestedData(ctx context.Context, in TestedDataInput) (*TestedData, error) {
	row, err := db.New(r.db).CreateTestedData(ctx, db.CreateTestedDataParams{
		SrNo:                ToPgInt4(&in.SrNo),
		ModelName:           ToPgText(in.ModelName),
		DateTime:            ToPgTimestamptz(in.DateTime),
		SerialNo:            ToPgText(in.SerialNo),
		BeforeInsulationRes: ToPgFloat8(in.BeforeInsulationRes),
		Result:              ToPgBool(in.Result),
		Voltage:             ToPgFloat8(in.Voltage),
		CurrentAmp:          ToPgFloat8(in.CurrentAmp),
		Power:               ToPgFloat8(in.Power),
		Frequency:           ToPgFloat8(in.Frequency),
		Result2:             ToPgBool(in.Result2),
		AfterInsulationRes:  ToPgFloat8(in.AfterInsulationRes),
		Result3:             ToPgBool(in.Result3),
		FinalResult:         ToPgBool(in.FinalResult),
	})
	if err != nil {
		return nil, fmt.Errorf("create tested data: %w", err)
	}
	td := testedDataFromRow(row)
	return &td, nil
}

// ListTestedData returns results in [From, To) ordered by time, optionally
// restricted to one model.
func (r *Repository) ListTestedData(ctx context.Context, f TestedDataFilter) ([]TestedData, error) {
	rows, err := db.New(r.db).ListTestedData(ctx, db.ListTestedDataParams{
		From:  ToPgTimestamptz(f.From),
		To:    ToPgTimestamptz(f.To),
		Model: ToPgText(f.Model),
	})
	if err != nil {
		return nil, fmt.Errorf("list tested data: %w", err)
	}
	out := make([]TestedData, 0, len(rows))
	for _, row := range rows {
		out = append(out, testedDataFromRow(row))
	}
	return out, nil
}

// DistinctModels returns the model names that have tested results.
func (r *Repository) DistinctModels(ctx context.Context) ([]string, error) {
	names, err := db.New(r.db).ListDistinctModelNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// DailyStats counts results recorded in [from, to).
func (r *Repository) DailyStats(ctx context.Context, from, to time.Time) (DailyStats, error) {
	row, err := db.New(r.db).GetDailyStats(ctx, db.GetDailyStatsParams{
		From: ToPgTimestamptz(from),
		To:   ToPgTimestamptz(to),
	})
	if err != nil {
		return DailyStats{}, fmt.Errorf("daily stats: %w", err)
	}
	return DailyStats{
		Total:        int(row.Total),
		Passed:       int(row.Passed),
		Failed:       int(row.Failed),
		FailBeforeIR: int(row.FailBeforeIr),
		FailNoLoad:   int(row.FailNoLoad),
		FailAfterIR:  int(row.FailAfterIr),
	}, nil
}

func masterDataParams(d MasterDataInput, now time.Time) db.CreateMasterDataParams {
	return db.CreateMasterDataParams{
		SrNo:             ToPgInt4(d.SrNo),
		DateTime:         ToPgTimestamptz(now),
		Model:            ToPgText(d.Model),
		Phase:            ToPgFloat8(d.Phase),
		MinInsulationRes: ToPgFloat8(d.MinInsulationRes),
		MaxInsulationRes: ToPgFloat8(d.MaxInsulationRes),
		TestTime:         ToPgFloat8(d.TestTime),
		MinVoltage:       ToPgFloat8(d.MinVoltage),
		MaxVoltage:       ToPgFloat8(d.MaxVoltage),
		MinCurrent:       ToPgFloat8(d.MinCurrent),
		MaxCurrent:       ToPgFloat8(d.MaxCurrent),
		MinPower:         ToPgFloat8(d.MinPower),
		MaxPower:         ToPgFloat8(d.MaxPower),
		MinFrequency:     ToPgFloat8(d.MinFrequency),
		MaxFrequency:     ToPgFloat8(d.MaxFrequency),
		MinRpm:           ToPgFloat8(d.MinRPM),
		MaxRpm:           ToPgFloat8(d.MaxRPM),
		Direction:        ToPgFloat8(d.Direction),
	}
}

func masterDataFromRow(row db.MasterDatum) MasterData {
	md := MasterData{
		ID: row.ID,
		MasterDataInput: MasterDataInput{
			SrNo:             FromPgInt4(row.SrNo),
			Model:            row.Model.String,
			Phase:            FromPgFloat8(row.Phase),
			MinInsulationRes: FromPgFloat8(row.MinInsulationRes),
			MaxInsulationRes: FromPgFloat8(row.MaxInsulationRes),
			TestTime:         FromPgFloat8(row.TestTime),
			MinVoltage:       FromPgFloat8(row.MinVoltage),
			MaxVoltage:       FromPgFloat8(row.MaxVoltage),
			MinCurrent:       FromPgFloat8(row.MinCurrent),
			MaxCurrent:       FromPgFloat8(row.MaxCurrent),
			MinPower:         FromPgFloat8(row.MinPower),
			MaxPower:         FromPgFloat8(row.MaxPower),
			MinFrequency:     FromPgFloat8(row.MinFrequency),
			MaxFrequency:     FromPgFloat8(row.MaxFrequency),
			MinRPM:           FromPgFloat8(row.MinRpm),
			MaxRPM:           FromPgFloat8(row.MaxRpm),
			Direction:        FromPgFloat8(row.Direction),
		},
	}
	if row.DateTime.Valid {
		md.DateTime = row.DateTime.Time
	}
	return md
}

func testedDataFromRow(row db.TestedDatum) TestedData {
	return TestedData{
		ID:                  row.ID,
		SrNo:                FromPgInt4(row.SrNo),
		ModelName:           row.ModelName.String,
		DateTime:            FromPgTimestamptz(row.DateTime),
		SerialNo:            row.SerialNo.String,
		BeforeInsulationRes: FromPgFloat8(row.BeforeInsulationRes),
		Result:              FromPgBool(row.Result),
		Voltage:             FromPgFloat8(row.Voltage),
		CurrentAmp:          FromPgFloat8(row.CurrentAmp),
		Power:               FromPgFloat8(row.Power),
		Frequency:           FromPgFloat8(row.Frequency),
		Result2:             FromPgBool(row.Result2),
		AfterInsulationRes:  FromPgFloat8(row.AfterInsulationRes),
		Result3:             FromPgBool(row.Result3),
		FinalResult:         FromPgBool(row.FinalResult),
	}
}
