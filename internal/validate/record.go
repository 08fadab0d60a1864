package validate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ppiankov/sandbox-validator/internal/model"
)

// EnvelopeField wraps a record in scoring requests: {"experimento": {...}}.
const EnvelopeField = "experimento"

// MaxFieldLen bounds every free-text field, in characters.
const MaxFieldLen = 20000

// recordInput mirrors model.ExperimentRecord with presence tracking. A nil
// field was absent or null; a non-nil empty string is valid input.
type recordInput struct {
	Problem      *string `json:"problema" binding:"required,max=20000"`
	Hypothesis   *string `json:"hipotese" binding:"required,max=20000"`
	KPI          *string `json:"kpi" binding:"required,max=20000"`
	Baseline     *string `json:"baseline" binding:"required,max=20000"`
	Target       *string `json:"alvo" binding:"required,max=20000"`
	TestPlan     *string `json:"plano_teste" binding:"required,max=20000"`
	PrivacyRisks *string `json:"riscos_lgpd" binding:"required,max=20000"`
	Dependencies *string `json:"dependencias" binding:"omitempty,max=20000"`
	ManagingUnit *string `json:"unidade_gestora" binding:"required,max=20000"`
	Sponsor      *string `json:"patrocinador" binding:"required,max=20000"`
	References   *string `json:"referencias" binding:"omitempty,max=20000"`
}

// fields lists the record's wire names in declaration order, bound to their slots.
func (in *recordInput) fields() []struct {
	name string
	slot **string
} {
	return []struct {
		name string
		slot **string
	}{
		{"problema", &in.Problem},
		{"hipotese", &in.Hypothesis},
		{"kpi", &in.KPI},
		{"baseline", &in.Baseline},
		{"alvo", &in.Target},
		{"plano_teste", &in.TestPlan},
		{"riscos_lgpd", &in.PrivacyRisks},
		{"dependencias", &in.Dependencies},
		{"unidade_gestora", &in.ManagingUnit},
		{"patrocinador", &in.Sponsor},
		{"referencias", &in.References},
	}
}

func (in *recordInput) record() model.ExperimentRecord {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return model.ExperimentRecord{
		Problem:      deref(in.Problem),
		Hypothesis:   deref(in.Hypothesis),
		KPI:          deref(in.KPI),
		Baseline:     deref(in.Baseline),
		Target:       deref(in.Target),
		TestPlan:     deref(in.TestPlan),
		PrivacyRisks: deref(in.PrivacyRisks),
		Dependencies: deref(in.Dependencies),
		ManagingUnit: deref(in.ManagingUnit),
		Sponsor:      deref(in.Sponsor),
		References:   deref(in.References),
	}
}

// ScoreRequest decodes a scoring request body. The record must be wrapped in
// the "experimento" envelope.
func ScoreRequest(data []byte) (model.ExperimentRecord, error) {
	obj, errs := decodeObject(data, "body")
	if errs != nil {
		return model.ExperimentRecord{}, errs
	}
	inner, ok := obj[EnvelopeField]
	if !ok || isNull(inner) {
		return model.ExperimentRecord{}, Errors{{Field: EnvelopeField, Rule: RuleRequired, Message: "field required"}}
	}
	return decodeRecord(inner, EnvelopeField)
}

// Record decodes one record, bare or wrapped in the "experimento" envelope.
func Record(data []byte) (model.ExperimentRecord, error) {
	obj, errs := decodeObject(data, "body")
	if errs != nil {
		return model.ExperimentRecord{}, errs
	}
	if inner, ok := obj[EnvelopeField]; ok && len(obj) == 1 {
		return decodeRecord(inner, EnvelopeField)
	}
	return recordFromObject(obj)
}

func decodeRecord(data json.RawMessage, field string) (model.ExperimentRecord, error) {
	obj, errs := decodeObject(data, field)
	if errs != nil {
		return model.ExperimentRecord{}, errs
	}
	return recordFromObject(obj)
}

// recordFromObject reports one error per missing, null or non-string field.
func recordFromObject(obj map[string]json.RawMessage) (model.ExperimentRecord, error) {
	var in recordInput
	var errs Errors
	mistyped := make(map[string]bool)

	for _, f := range in.fields() {
		raw, ok := obj[f.name]
		if !ok || isNull(raw) {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			mistyped[f.name] = true
			errs = append(errs, ValidationError{Field: f.name, Rule: RuleType, Message: "must be a string"})
			continue
		}
		*f.slot = &s
	}

	if err := Struct(in); err != nil {
		for _, ve := range FromError(err) {
			if !mistyped[ve.Field] {
				errs = append(errs, ve)
			}
		}
	}

	if len(errs) > 0 {
		return model.ExperimentRecord{}, errs
	}
	return in.record(), nil
}

func decodeObject(data []byte, field string) (map[string]json.RawMessage, Errors) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, Errors{{Field: field, Rule: RuleRequired, Message: "field required"}}
	}
	if trimmed[0] != '{' {
		return nil, Errors{{Field: field, Rule: RuleType, Message: "must be an object"}}
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, Errors{{Field: field, Rule: RuleJSON, Message: fmt.Sprintf("malformed JSON: %v", err)}}
	}
	return obj, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
