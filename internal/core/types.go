package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// TxStarter opens transactions. Satisfied by *pgxpool.Pool.
type TxStarter interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// MasterDataInput is one motor test specification as parsed from the
// workbook. Nil pointers mean the value is absent.
type MasterDataInput struct {
	SrNo             *int     `json:"srNo"`
	Model            string   `json:"model"`
	Phase            *float64 `json:"phase"`
	MinInsulationRes *float64 `json:"minInsulationRes"`
	MaxInsulationRes *float64 `json:"maxInsulationRes"`
	TestTime         *float64 `json:"testTime"`
	MinVoltage       *float64 `json:"minVoltage"`
	MaxVoltage       *float64 `json:"maxVoltage"`
	MinCurrent       *float64 `json:"minCurrent"`
	MaxCurrent       *float64 `json:"maxCurrent"`
	MinPower         *float64 `json:"minPower"`
	MaxPower         *float64 `json:"maxPower"`
	MinFrequency     *float64 `json:"minFrequency"`
	MaxFrequency     *float64 `json:"maxFrequency"`
	MinRPM           *float64 `json:"minRPM"`
	MaxRPM           *float64 `json:"maxRPM"`
	Direction        *float64 `json:"direction"`
}

// floatField returns a pointer to the numeric field stored under key,
// or nil when key is not a numeric field.
func (m *MasterDataInput) floatField(key FieldKey) **float64 {
	switch key {
	case FieldPhase:
		return &m.Phase
	case FieldMinInsulationRes:
		return &m.MinInsulationRes
	case FieldMaxInsulationRes:
		return &m.MaxInsulationRes
	case FieldTestTime:
		return &m.TestTime
	case FieldMinVoltage:
		return &m.MinVoltage
	case FieldMaxVoltage:
		return &m.MaxVoltage
	case FieldMinCurrent:
		return &m.MinCurrent
	case FieldMaxCurrent:
		return &m.MaxCurrent
	case FieldMinPower:
		return &m.MinPower
	case FieldMaxPower:
		return &m.MaxPower
	case FieldMinFrequency:
		return &m.MinFrequency
	case FieldMaxFrequency:
		return &m.MaxFrequency
	case FieldMinRPM:
		return &m.MinRPM
	case FieldMaxRPM:
		return &m.MaxRPM
	case FieldDirection:
		return &m.Direction
	}
	return nil
}

// RowStatus is the sync state of a parsed row.
type RowStatus string

const (
	StatusIdle    RowStatus = "idle"
	StatusPending RowStatus = "pending"
	StatusSuccess RowStatus = "success"
	StatusError   RowStatus = "error"
)

// ParsedRow is one extracted record plus its review state.
// Index is assigned at parse time and is stable across edits and removals.
type ParsedRow struct {
	Index     int               `json:"index"`
	Data      MasterDataInput   `json:"data"`
	Valid     bool              `json:"isValid"`
	Errors    map[string]string `json:"errors,omitempty"`
	Status    RowStatus         `json:"status"`
	Message   string            `json:"message,omitempty"`
	Submitted bool              `json:"submitted"`
}

// ParseResult is a successful import: the extracted records and row counts.
type ParseResult struct {
	Records     []MasterDataInput `json:"data"`
	TotalRows   int               `json:"totalRows"`
	SkippedRows int               `json:"skippedRows"`
}

// SyncItem is one row handed to a batch create call.
type SyncItem struct {
	Index int             `json:"index"`
	Data  MasterDataInput `json:"data"`
}

// SyncResult reports the outcome of creating one SyncItem.
type SyncResult struct {
	Index   int         `json:"index"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    *MasterData `json:"data,omitempty"`
}

// MasterData is a stored master data row.
type MasterData struct {
	ID       int64     `json:"id"`
	DateTime time.Time `json:"dateTime"`
	MasterDataInput
}

// LiveReading is one row of live sensor values captured by the test rig.
type LiveReading struct {
	ID                     int64      `json:"id"`
	DateTime               *time.Time `json:"dateTime"`
	BeforeNoLoadTest       *float64   `json:"beforeNoLoadTest"`
	AfterNoLoadTest        *float64   `json:"afterNoLoadTest"`
	NoLoadRatedVolt        *float64   `json:"noLoadRatedVolt"`
	NoLoadCurrent          *float64   `json:"noLoadCurrent"`
	NoLoadPower            *float64   `json:"noLoadPower"`
	NoLoadFrequency        *float64   `json:"noLoadFrequency"`
	NoLoadRPM              *float64   `json:"noLoadRPM"`
	DirectionClockWise     bool       `json:"directionClockWise"`
	DirectionAntiClockWise bool       `json:"directionAntiClockWise"`
}

// TestedDataInput is a completed test result ready to be stored.
type TestedDataInput struct {
	SrNo                int       `json:"srNo"`
	ModelName           string    `json:"modelName"`
	DateTime            time.Time `json:"dateTime"`
	SerialNo            string    `json:"serialNo"`
	BeforeInsulationRes *float64  `json:"beforeInsulationRes"`
	Result              bool      `json:"result"`
	Voltage             *float64  `json:"voltage"`
	CurrentAmp          *float64  `json:"currentAmp"`
	Power               *float64  `json:"power"`
	Frequency           *float64  `json:"frequency"`
	Result2             bool      `json:"result2"`
	AfterInsulationRes  *float64  `json:"afterInsulationRes"`
	Result3             bool      `json:"result3"`
	FinalResult         bool      `json:"finalResult"`
}

// TestedData is a stored test result. Result flags may be null for rows
// written by other tools.
type TestedData struct {
	ID                  int64      `json:"id"`
	SrNo                *int       `json:"srNo"`
	ModelName           string     `json:"modelName"`
	DateTime            *time.Time `json:"dateTime"`
	SerialNo            string     `json:"serialNo"`
	BeforeInsulationRes *float64   `json:"beforeInsulationRes"`
	Result              *bool      `json:"result"`
	Voltage             *float64   `json:"voltage"`
	CurrentAmp          *float64   `json:"currentAmp"`
	Power               *float64   `json:"power"`
	Frequency           *float64   `json:"frequency"`
	Result2             *bool      `json:"result2"`
	AfterInsulationRes  *float64   `json:"afterInsulationRes"`
	Result3             *bool      `json:"result3"`
	FinalResult         *bool      `json:"finalResult"`
}

// TestedDataFilter narrows a tested data report.
type TestedDataFilter struct {
	From  time.Time
	To    time.Time
	Model string
}

// DailyStats summarises tested results for one day.
type DailyStats struct {
	Total        int `json:"total"`
	Passed       int `json:"passed"`
	Failed       int `json:"failed"`
	FailBeforeIR int `json:"failBeforeIR"`
	FailNoLoad   int `json:"failNoLoad"`
	FailAfterIR  int `json:"failAfterIR"`
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
