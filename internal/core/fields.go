package core

import (
	"strings"
	"unicode"
)

// FieldKey names a canonical master data field.
type FieldKey string

const (
	FieldSrNo             FieldKey = "srNo"
	FieldModel            FieldKey = "model"
	FieldPhase            FieldKey = "phase"
	FieldMinInsulationRes FieldKey = "minInsulationRes"
	FieldMaxInsulationRes FieldKey = "maxInsulationRes"
	FieldTestTime         FieldKey = "testTime"
	FieldMinVoltage       FieldKey = "minVoltage"
	FieldMaxVoltage       FieldKey = "maxVoltage"
	FieldMinCurrent       FieldKey = "minCurrent"
	FieldMaxCurrent       FieldKey = "maxCurrent"
	FieldMinPower         FieldKey = "minPower"
	FieldMaxPower         FieldKey = "maxPower"
	FieldMinFrequency     FieldKey = "minFrequency"
	FieldMaxFrequency     FieldKey = "maxFrequency"
	FieldMinRPM           FieldKey = "minRPM"
	FieldMaxRPM           FieldKey = "maxRPM"
	FieldDirection        FieldKey = "direction"
)

// FieldDefinition ties a canonical field to the header spellings accepted for it.
// The first alias is the display name used in error messages.
type FieldDefinition struct {
	Key     FieldKey
	Aliases []string
}

// DisplayName returns the canonical header for the field.
func (d FieldDefinition) DisplayName() string {
	return d.Aliases[0]
}

// FieldDefinitions lists every master data column in workbook order.
var FieldDefinitions = []FieldDefinition{
	{Key: FieldSrNo, Aliases: []string{"Sr. No.", "Sr No", "Sr.No.", "Sr. No", "Serial No", "S.No.", "SrNo"}},
	{Key: FieldModel, Aliases: []string{"Model", "Model Name"}},
	{Key: FieldPhase, Aliases: []string{"Phase"}},
	{Key: FieldMinInsulationRes, Aliases: insulationAliases("Min")},
	{Key: FieldMaxInsulationRes, Aliases: insulationAliases("Max")},
	{Key: FieldTestTime, Aliases: []string{"Test Time (s)", "Test Time", "Test Time (sec)", "Test Time(s)", "Test Time (Second)", "Test Time (Seconds)"}},
	{Key: FieldMinVoltage, Aliases: unitAliases("Min", "Voltage", "(V)", "(Volt)")},
	{Key: FieldMaxVoltage, Aliases: unitAliases("Max", "Voltage", "(V)", "(Volt)")},
	{Key: FieldMinCurrent, Aliases: unitAliases("Min", "Current", "(A)", "(amp.)")},
	{Key: FieldMaxCurrent, Aliases: unitAliases("Max", "Current", "(A)", "(amp.)")},
	{Key: FieldMinPower, Aliases: unitAliases("Min", "Power", "(W)", "(Watt)")},
	{Key: FieldMaxPower, Aliases: unitAliases("Max", "Power", "(W)", "(Watt)")},
	{Key: FieldMinFrequency, Aliases: frequencyAliases("Min")},
	{Key: FieldMaxFrequency, Aliases: frequencyAliases("Max")},
	{Key: FieldMinRPM, Aliases: []string{"Min. RPM", "Min RPM"}},
	{Key: FieldMaxRPM, Aliases: []string{"Max. RPM", "Max RPM"}},
	{Key: FieldDirection, Aliases: []string{"Direction"}},
}

// The misspelled "Inuslation" variants appear in workbooks in circulation.
func insulationAliases(bound string) []string {
	return []string{
		bound + ". IR (MΩ)",
		bound + " IR (MΩ)",
		bound + ". IR",
		bound + " IR",
		bound + ". Insulation Resistance",
		bound + " Insulation Resistance",
		bound + ". Insulation resistance (MΩ)",
		bound + ". Inuslation resistance (MΩ)",
		bound + ". Insulation Resistance (MΩ)",
		bound + ". Inuslation Resistance (MΩ)",
	}
}

func unitAliases(bound, quantity, unit, longUnit string) []string {
	return []string{
		bound + ". " + quantity + " " + unit,
		bound + ". " + quantity + " " + longUnit,
		bound + " " + quantity + " " + unit,
		bound + " " + quantity + " " + longUnit,
		bound + ". " + quantity,
		bound + " " + quantity,
	}
}

func frequencyAliases(bound string) []string {
	return []string{
		bound + ". Freq (Hz)",
		bound + ". Frequency (Hz)",
		bound + " Freq (Hz)",
		bound + " Frequency (Hz)",
		bound + ". Frequency",
		bound + ". Freq",
		bound + " Frequency",
	}
}

// aliasIndex maps every normalized alias to its field. Built once at init.
var aliasIndex = buildAliasIndex(FieldDefinitions)

func buildAliasIndex(defs []FieldDefinition) map[string]*FieldDefinition {
	idx := make(map[string]*FieldDefinition)
	for i := range defs {
		for _, alias := range defs[i].Aliases {
			idx[Normalize(alias)] = &defs[i]
		}
	}
	return idx
}

// LookupAlias returns the field a header cell names, if any.
func LookupAlias(cell string) (*FieldDefinition, bool) {
	def, ok := aliasIndex[Normalize(cell)]
	return def, ok
}

// Normalize collapses whitespace runs to a single space, trims, and lower-cases.
// It is idempotent.
func Normalize(s string) string {
	return strings.ToLower(collapseSpace(s))
}

// collapseSpace replaces every run of Unicode whitespace with one space and trims.
func collapseSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
