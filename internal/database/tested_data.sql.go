package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const testedDataColumns = `id, sr_no, model_name, date_time, serial_no,
    before_insulation_res, result, voltage, current_amp, power, frequency,
    result2, after_insulation_res, result3, final_result`

func scanTestedDatum(row interface{ Scan(...any) error }) (TestedDatum, error) {
	var i TestedDatum
	err := row.Scan(
		&i.ID,
		&i.SrNo,
		&i.ModelName,
		&i.DateTime,
		&i.SerialNo,
		&i.BeforeInsulationRes,
		&i.Result,
		&i.Voltage,
		&i.CurrentAmp,
		&i.Power,
		&i.Frequency,
		&i.Result2,
		&i.AfterInsulationRes,
		&i.Result3,
		&i.FinalResult,
	)
	return i, err
}

const createTestedData = `-- name: CreateTestedData :one
INSERT INTO tested_data (
    sr_no, model_name, date_time, serial_no,
    before_insulation_res, result, voltage, current_amp, power, frequency,
    result2, after_insulation_res, result3, final_result
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
)
RETURNING ` + testedDataColumns

type CreateTestedDataParams struct {
	SrNo                pgtype.Int4
	ModelName           pgtype.Text
	DateTime            pgtype.Timestamptz
	SerialNo            pgtype.Text
	BeforeInsulationRes pgtype.Float8
	Result              pgtype.Bool
	Voltage             pgtype.Float8
	CurrentAmp          pgtype.Float8
	Power               pgtype.Float8
	Frequency           pgtype.Float8
	Result2             pgtype.Bool
	AfterInsulationRes  pgtype.Float8
	Result3             pgtype.Bool
	FinalResult         pgtype.Bool
}

func (q *Queries) CreateTestedData(ctx context.Context, arg CreateTestedDataParams) (TestedDatum, error) {
	row := q.db.QueryRow(ctx, createTestedData,
		arg.SrNo,
		arg.ModelName,
		arg.DateTime,
		arg.SerialNo,
		arg.BeforeInsulationRes,
		arg.Result,
		arg.Voltage,
		arg.CurrentAmp,
		arg.Power,
		arg.Frequency,
		arg.Result2,
		arg.AfterInsulationRes,
		arg.Result3,
		arg.FinalResult,
	)
	return scanTestedDatum(row)
}

const listTestedData = `-- name: ListTestedData :many
SELECT ` + testedDataColumns + `
FROM tested_data
WHERE date_time >= $1
  AND date_time < $2
  AND ($3::text IS NULL OR model_name = $3::text)
ORDER BY date_time ASC, id ASC`

type ListTestedDataParams struct {
	From  pgtype.Timestamptz
	To    pgtype.Timestamptz
	Model pgtype.Text
}

func (q *Queries) ListTestedData(ctx context.Context, arg ListTestedDataParams) ([]TestedDatum, error) {
	rows, err := q.db.Query(ctx, listTestedData, arg.From, arg.To, arg.Model)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TestedDatum
	for rows.Next() {
		i, err := scanTestedDatum(rows)
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

const listDistinctModelNames = `-- name: ListDistinctModelNames :many
SELECT DISTINCT model_name
FROM tested_data
WHERE model_name IS NOT NULL
ORDER BY model_name ASC`

func (q *Queries) ListDistinctModelNames(ctx context.Context) ([]string, error) {
	rows, err := q.db.Query(ctx, listDistinctModelNames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		items = append(items, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getDailyStats = `-- name: GetDailyStats :one
SELECT
    COUNT(*)                                     AS total,
    COUNT(*) FILTER (WHERE final_result IS TRUE)  AS passed,
    COUNT(*) FILTER (WHERE final_result IS FALSE) AS failed,
    COUNT(*) FILTER (WHERE result IS FALSE)       AS fail_before_ir,
    COUNT(*) FILTER (WHERE result3 IS FALSE)      AS fail_no_load,
    COUNT(*) FILTER (WHERE result2 IS FALSE)      AS fail_after_ir
FROM tested_data
WHERE date_time >= $1
  AND date_time < $2`

type GetDailyStatsParams struct {
	From pgtype.Timestamptz
	To   pgtype.Timestamptz
}

type GetDailyStatsRow struct {
	Total        int64
	Passed       int64
	Failed       int64
	FailBeforeIr int64
	FailNoLoad   int64
	FailAfterIr  int64
}

func (q *Queries) GetDailyStats(ctx context.Context, arg GetDailyStatsParams) (GetDailyStatsRow, error) {
	row := q.db.QueryRow(ctx, getDailyStats, arg.From, arg.To)
	var i GetDailyStatsRow
	err := row.Scan(
		&i.Total,
		&i.Passed,
		&i.Failed,
		&i.FailBeforeIr,
		&i.FailNoLoad,
		&i.FailAfterIr,
	)
	return i, err
}
