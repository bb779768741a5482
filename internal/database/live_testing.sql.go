package database

import "context"

const getLatestLiveTestingData = `-- name: GetLatestLiveTestingData :one
SELECT id, date_time, before_no_load_test, after_no_load_test,
    no_load_rated_volt, no_load_current, no_load_power, no_load_frequency,
    no_load_rpm, direction_clock_wise, direction_anti_clock_wise
FROM live_testing_data
ORDER BY id DESC
LIMIT 1`

func (q *Queries) GetLatestLiveTestingData(ctx context.Context) (LiveTestingDatum, error) {
	row := q.db.QueryRow(ctx, getLatestLiveTestingData)
	var i LiveTestingDatum
	err := row.Scan(
		&i.ID,
		&i.DateTime,
		&i.BeforeNoLoadTest,
		&i.AfterNoLoadTest,
		&i.NoLoadRatedVolt,
		&i.NoLoadCurrent,
		&i.NoLoadPower,
		&i.NoLoadFrequency,
		&i.NoLoadRpm,
		&i.DirectionClockWise,
		&i.DirectionAntiClockWise,
	)
	return i, err
}
