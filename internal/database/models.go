package database

import "github.com/jackc/pgx/v5/pgtype"

type MasterDatum struct {
	ID               int64
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

type TestedDatum struct {
	ID                  int64
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

type LiveTestingDatum struct {
	ID                     int64
	DateTime               pgtype.Timestamptz
	BeforeNoLoadTest       pgtype.Float8
	AfterNoLoadTest        pgtype.Float8
	NoLoadRatedVolt        pgtype.Float8
	NoLoadCurrent          pgtype.Float8
	NoLoadPower            pgtype.Float8
	NoLoadFrequency        pgtype.Float8
	NoLoadRpm              pgtype.Float8
	DirectionClockWise     pgtype.Bool
	DirectionAntiClockWise bool
}
