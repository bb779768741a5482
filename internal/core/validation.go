package core

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
)

const (
	msgModelRequired    = "Model is required"
	msgNumberOutOfRange = "Number out of range"
)

// ValidateMasterData checks a record and returns one message per failing
// field. An empty map means the record is valid. Numeric fields are
// optional; nil is accepted everywhere except model.
func ValidateMasterData(data MasterDataInput) map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(data.Model) == "" {
		errs[string(FieldModel)] = msgModelRequired
	}
	return errs
}

// ValidationMessages flattens a field error map into a stable, comma-joined
// message in field order.
func ValidationMessages(errs map[string]string) string {
	var msgs []string
	for _, def := range FieldDefinitions {
		if msg, ok := errs[string(def.Key)]; ok {
			msgs = append(msgs, msg)
		}
	}
	return strings.Join(msgs, ", ")
}

// RowPatch is a partial edit of a record keyed by field. A key that is
// absent leaves the field alone; an explicit JSON null clears it.
type RowPatch map[FieldKey]json.RawMessage

// ApplyPatch merges patch into data. Values of the wrong JSON type are not
// applied; they are reported as field errors instead. Unknown keys are ignored.
func ApplyPatch(data MasterDataInput, patch RowPatch) (MasterDataInput, map[string]string) {
	typeErrs := make(map[string]string)

	for key, raw := range patch {
		kind := jsonKind(raw)

		switch key {
		case FieldModel:
			switch kind {
			case "string":
				var s string
				if err := json.Unmarshal(raw, &s); err != nil {
					typeErrs[string(key)] = "Invalid string"
					continue
				}
				data.Model = s
			default:
				typeErrs[string(key)] = "Expected string, received " + kind
			}

		case FieldSrNo:
			switch kind {
			case "null":
				data.SrNo = nil
			case "number":
				var f float64
				if err := json.Unmarshal(raw, &f); err != nil {
					typeErrs[string(key)] = "Invalid number"
					continue
				}
				if f != math.Trunc(f) {
					typeErrs[string(key)] = "Expected integer, received float"
					continue
				}
				if f < math.MinInt32 || f > math.MaxInt32 {
					typeErrs[string(key)] = msgNumberOutOfRange
					continue
				}
				data.SrNo = Int(int(f))
			default:
				typeErrs[string(key)] = "Expected number, received " + kind
			}

		default:
			field := data.floatField(key)
			if field == nil {
				continue
			}
			switch kind {
			case "null":
				*field = nil
			case "number":
				var f float64
				if err := json.Unmarshal(raw, &f); err != nil {
					typeErrs[string(key)] = "Invalid number"
					continue
				}
				*field = Float64(f)
			default:
				typeErrs[string(key)] = "Expected number, received " + kind
			}
		}
	}

	return data, typeErrs
}

// jsonKind names the JSON type of a raw value the way validation messages expect.
func jsonKind(raw json.RawMessage) string {
	b := bytes.TrimSpace(raw)
	if len(b) == 0 {
		return "undefined"
	}
	switch b[0] {
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	case '[':
		return "array"
	case '{':
		return "object"
	default:
		return "number"
	}
}
