package core

import "math"

// Verdict is a pass/fail outcome.
type Verdict string

const (
	Pass Verdict = "PASS"
	Fail Verdict = "FAIL"
)

func verdict(ok bool) Verdict {
	if ok {
		return Pass
	}
	return Fail
}

// Evaluation compares one live reading against a master data row.
type Evaluation struct {
	BeforeIR  Verdict `json:"beforeIR"`
	AfterIR   Verdict `json:"afterIR"`
	Voltage   Verdict `json:"voltage"`
	Current   Verdict `json:"current"`
	Power     Verdict `json:"power"`
	Frequency Verdict `json:"frequency"`
	RPM       Verdict `json:"rpm"`
	Direction Verdict `json:"direction"`
	NoLoad    Verdict `json:"noLoad"`
	Final     Verdict `json:"final"`

	ExpectedDirection string `json:"expectedDirection"`
	MeasuredDirection string `json:"measuredDirection"`
}

// Passed reports whether every check passed.
func (e Evaluation) Passed() bool { return e.Final == Pass }

// noDirection labels an absent or unknown direction.
const noDirection = "—"

// DirectionLabel names a direction code: 1 is CW, 2 is ACW.
func DirectionLabel(code *float64) string {
	if code == nil {
		return noDirection
	}
	switch *code {
	case DirectionCW:
		return "CW"
	case DirectionACW:
		return "ACW"
	}
	return noDirection
}

// measuredDirection reads the rig's direction flags. Clockwise wins if both are set.
func measuredDirection(r LiveReading) string {
	switch {
	case r.DirectionClockWise:
		return "CW"
	case r.DirectionAntiClockWise:
		return "ACW"
	}
	return noDirection
}

// WithinLimits reports whether v lies in [lo, hi]. A nil bound is open;
// a nil value always fails.
func WithinLimits(v, lo, hi *float64) bool {
	if v == nil {
		return false
	}
	minVal, maxVal := math.Inf(-1), math.Inf(1)
	if lo != nil {
		minVal = *lo
	}
	if hi != nil {
		maxVal = *hi
	}
	return *v >= minVal && *v <= maxVal
}

// Evaluate checks a live reading against the limits of md. Both IR
// readings use the insulation limits. The no-load verdict requires every
// electrical check and a matching measured direction.
func Evaluate(md MasterDataInput, r LiveReading) Evaluation {
	beforeIR := WithinLimits(r.BeforeNoLoadTest, md.MinInsulationRes, md.MaxInsulationRes)
	afterIR := WithinLimits(r.AfterNoLoadTest, md.MinInsulationRes, md.MaxInsulationRes)
	voltage := WithinLimits(r.NoLoadRatedVolt, md.MinVoltage, md.MaxVoltage)
	current := WithinLimits(r.NoLoadCurrent, md.MinCurrent, md.MaxCurrent)
	power := WithinLimits(r.NoLoadPower, md.MinPower, md.MaxPower)
	frequency := WithinLimits(r.NoLoadFrequency, md.MinFrequency, md.MaxFrequency)
	rpm := WithinLimits(r.NoLoadRPM, md.MinRPM, md.MaxRPM)

	expected := DirectionLabel(md.Direction)
	measured := measuredDirection(r)
	direction := measured != noDirection && measured == expected

	noLoad := voltage && current && power && frequency && rpm && direction

	return Evaluation{
		BeforeIR:          verdict(beforeIR),
		AfterIR:           verdict(afterIR),
		Voltage:           verdict(voltage),
		Current:           verdict(current),
		Power:             verdict(power),
		Frequency:         verdict(frequency),
		RPM:               verdict(rpm),
		Direction:         verdict(direction),
		NoLoad:            verdict(noLoad),
		Final:             verdict(beforeIR && afterIR && noLoad),
		ExpectedDirection: expected,
		MeasuredDirection: measured,
	}
}

// TestedResult builds the stored result for a unit with the given serial number.
func TestedResult(md MasterDataInput, r LiveReading, e Evaluation, serialNo string) TestedDataInput {
	srNo := 0
	if md.SrNo != nil {
		srNo = *md.SrNo
	}
	return TestedDataInput{
		SrNo:                srNo,
		ModelName:           md.Model,
		SerialNo:            serialNo,
		BeforeInsulationRes: r.BeforeNoLoadTest,
		Result:              e.BeforeIR == Pass,
		AfterInsulationRes:  r.AfterNoLoadTest,
		Result2:             e.AfterIR == Pass,
		Voltage:             r.NoLoadRatedVolt,
		CurrentAmp:          r.NoLoadCurrent,
		Power:               r.NoLoadPower,
		Frequency:           r.NoLoadFrequency,
		Result3:             e.NoLoad == Pass,
		FinalResult:         e.Passed(),
	}
}
