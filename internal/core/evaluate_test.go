package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func motorLimits() MasterDataInput {
	return MasterDataInput{
		SrNo:             Int(7),
		Model:            "M-7",
		MinInsulationRes: Float64(10),
		MaxInsulationRes: Float64(100),
		MinVoltage:       Float64(220),
		MaxVoltage:       Float64(240),
		MinCurrent:       Float64(1),
		MaxCurrent:       Float64(2),
		MinPower:         Float64(100),
		MaxPower:         Float64(200),
		MinFrequency:     Float64(49),
		MaxFrequency:     Float64(51),
		MinRPM:           Float64(1400),
		MaxRPM:           Float64(1500),
		Direction:        Float64(DirectionCW),
	}
}

func goodReading() LiveReading {
	return LiveReading{
		BeforeNoLoadTest:   Float64(50),
		AfterNoLoadTest:    Float64(45),
		NoLoadRatedVolt:    Float64(230),
		NoLoadCurrent:      Float64(1.5),
		NoLoadPower:        Float64(150),
		NoLoadFrequency:    Float64(50),
		NoLoadRPM:          Float64(1450),
		DirectionClockWise: true,
	}
}

func TestWithinLimits(t *testing.T) {
	tests := []struct {
		name   string
		v      *float64
		lo, hi *float64
		want   bool
	}{
		{"inside", Float64(5), Float64(1), Float64(10), true},
		{"on lower bound", Float64(1), Float64(1), Float64(10), true},
		{"on upper bound", Float64(10), Float64(1), Float64(10), true},
		{"below", Float64(0.5), Float64(1), Float64(10), false},
		{"above", Float64(11), Float64(1), Float64(10), false},
		{"no lower bound", Float64(-100), nil, Float64(10), true},
		{"no upper bound", Float64(1e9), Float64(1), nil, true},
		{"no bounds", Float64(0), nil, nil, true},
		{"missing value", nil, Float64(1), Float64(10), false},
	}

	for _, tt := range tests {
		if got := WithinLimits(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("%s: WithinLimits() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEvaluate_AllPass(t *testing.T) {
	e := Evaluate(motorLimits(), goodReading())

	want := Evaluation{
		BeforeIR: Pass, AfterIR: Pass,
		Voltage: Pass, Current: Pass, Power: Pass, Frequency: Pass, RPM: Pass, Direction: Pass,
		NoLoad: Pass, Final: Pass,
		ExpectedDirection: "CW", MeasuredDirection: "CW",
	}
	if diff := cmp.Diff(want, e); diff != "" {
		t.Errorf("Evaluate() mismatch (-want +got):\n%s", diff)
	}
	if !e.Passed() {
		t.Error("Passed() = false")
	}
}

func TestEvaluate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LiveReading)
		check  func(Evaluation) bool
	}{
		{
			name:   "wrong direction fails no-load",
			mutate: func(r *LiveReading) { r.DirectionClockWise, r.DirectionAntiClockWise = false, true },
			check: func(e Evaluation) bool {
				return e.Direction == Fail && e.NoLoad == Fail && e.MeasuredDirection == "ACW"
			},
		},
		{
			name:   "no direction flag",
			mutate: func(r *LiveReading) { r.DirectionClockWise = false },
			check:  func(e Evaluation) bool { return e.Direction == Fail && e.MeasuredDirection == "—" },
		},
		{
			name:   "low insulation after test",
			mutate: func(r *LiveReading) { r.AfterNoLoadTest = Float64(5) },
			check:  func(e Evaluation) bool { return e.AfterIR == Fail && e.BeforeIR == Pass && e.NoLoad == Pass },
		},
		{
			name:   "missing rpm",
			mutate: func(r *LiveReading) { r.NoLoadRPM = nil },
			check:  func(e Evaluation) bool { return e.RPM == Fail && e.NoLoad == Fail },
		},
		{
			name:   "over voltage",
			mutate: func(r *LiveReading) { r.NoLoadRatedVolt = Float64(260) },
			check:  func(e Evaluation) bool { return e.Voltage == Fail && e.Current == Pass },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := goodReading()
			tt.mutate(&r)
			e := Evaluate(motorLimits(), r)
			if !tt.check(e) {
				t.Errorf("unexpected evaluation: %+v", e)
			}
			if e.Final != Fail {
				t.Errorf("Final = %s, want FAIL", e.Final)
			}
		})
	}
}

func TestDirectionLabel(t *testing.T) {
	tests := []struct {
		code *float64
		want string
	}{
		{Float64(1), "CW"},
		{Float64(2), "ACW"},
		{Float64(3), "—"},
		{nil, "—"},
	}
	for _, tt := range tests {
		if got := DirectionLabel(tt.code); got != tt.want {
			t.Errorf("DirectionLabel(%v) = %q, want %q", fmtFloat(tt.code), got, tt.want)
		}
	}
}

func TestTestedResult(t *testing.T) {
	r := goodReading()
	r.AfterNoLoadTest = Float64(5)
	e := Evaluate(motorLimits(), r)

	got := TestedResult(motorLimits(), r, e, "SN-001")
	want := TestedDataInput{
		SrNo:                7,
		ModelName:           "M-7",
		SerialNo:            "SN-001",
		BeforeInsulationRes: Float64(50),
		Result:              true,
		AfterInsulationRes:  Float64(5),
		Result2:             false,
		Voltage:             Float64(230),
		CurrentAmp:          Float64(1.5),
		Power:               Float64(150),
		Frequency:           Float64(50),
		Result3:             true,
		FinalResult:         false,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TestedResult() mismatch (-want +got):\n%s", diff)
	}
}
