package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const masterDataColumns = `id, sr_no, date_time, model, phase,
    min_insulation_res, max_insulation_res, test_time,
    min_voltage, max_voltage, min_current, max_current,
    min_power, max_power, min_frequency, max_frequency,
    min_rpm, max_rpm, direction`

func scanMasterDatum(row interface{ Scan(...any) error }) (MasterDatum, error) {
	var i MasterDatum
	err := row.Scan(
		&i.ID,
		&i.SrNo,
		&i.DateTime,
		&i.Model,
		&i.Phase,
		&i.MinInsulationRes,
		&i.MaxInsulationRes,
		&i.TestTime,
		&i.MinVoltage,
		&i.MaxVoltage,
		&i.MinCurrent,
		&i.MaxCurrent,
		&i.MinPower,
		&i.MaxPower,
		&i.MinFrequency,
		&i.MaxFrequency,
		&i.MinRpm,
		&i.MaxRpm,
		&i.Direction,
	)
	return i, err
}

const createMasterData = `-- name: CreateMasterData :one
INSERT INTO master_data (
    sr_no, date_time, model, phase,
    min_insulation_res, max_insulation_res, test_time,
    min_voltage, max_voltage, min_current, max_current,
    min_power, max_power, min_frequency, max_frequency,
    min_rpm, max_rpm, direction
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
)
RETURNING ` + masterDataColumns

type CreateMasterDataParams struct {
	SrNo             pgtype.Int4
	DateTime         pgtype.Timestamptz
	Model            pgtype.Text
	Phase            pgtype.Float8
	MinInsulationRes pgtype.Float8
	MaxInsulationRes pgtype.Float8
	TestTime         pgtype.Float8
	MinVoltage       pgtype.Float8
	MaxVoltage       pgtype.Float8
	MinCurrent       pgtype.Float8
	MaxCurrent       pgtype.Float8
	MinPower         pgtype.Float8
	MaxPower         pgtype.Float8
	MinFrequency     pgtype.Float8
	MaxFrequency     pgtype.Float8
	MinRpm           pgtype.Float8
	MaxRpm           pgtype.Float8
	Direction        pgtype.Float8
}

func (q *Queries) CreateMasterData(ctx context.Context, arg CreateMasterDataParams) (MasterDatum, error) {
	row := q.db.QueryRow(ctx, createMasterData,
		arg.SrNo,
		arg.DateTime,
		arg.Model,
		arg.Phase,
		arg.MinInsulationRes,
		arg.MaxInsulationRes,
		arg.TestTime,
		arg.MinVoltage,
		arg.MaxVoltage,
		arg.MinCurrent,
		arg.MaxCurrent,
		arg.MinPower,
		arg.MaxPower,
		arg.MinFrequency,
		arg.MaxFrequency,
		arg.MinRpm,
		arg.MaxRpm,
		arg.Direction,
	)
	return scanMasterDatum(row)
}

const listMasterData = `-- name: ListMasterData :many
SELECT ` + masterDataColumns + `
FROM master_data
ORDER BY id ASC`

func (q *Queries) ListMasterData(ctx context.Context) ([]MasterDatum, error) {
	rows, err := q.db.Query(ctx, listMasterData)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MasterDatum
	for rows.Next() {
		i, err := scanMasterDatum(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getLatestMasterData = `-- name: GetLatestMasterData :one
SELECT ` + masterDataColumns + `
FROM master_data
ORDER BY id DESC
LIMIT 1`

func (q *Queries) GetLatestMasterData(ctx context.Context) (MasterDatum, error) {
	row := q.db.QueryRow(ctx, getLatestMasterData)
	return scanMasterDatum(row)
}
