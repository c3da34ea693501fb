package exrender

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// ParameterPrefix starts every parameter descriptor key.
const ParameterPrefix = "besoinFormulaire"

// FieldKind is the input kind of a parameter.
type FieldKind string

// Parameter kinds, named after the descriptor key suffix.
const (
	FieldText     FieldKind = "Texte"
	FieldNumeric  FieldKind = "Numerique"
	FieldCheckbox FieldKind = "CaseACocher"
)

var parameterKey = regexp.MustCompile(`(?i)^besoinFormulaire(\d*)(Texte|Numerique|CaseACocher)`)

// ParameterField is one configurable exercise parameter.
type ParameterField struct {
	Key     string    // descriptor key, e.g. "besoinFormulaire2Numerique"
	Kind    FieldKind // input kind
	SupKey  string    // key holding the current value, "" when unknown
	Label   string    // display label
	Helper  string    // help text, may be empty
	Value   any       // current value
	Default any       // descriptor default
}

// InputType returns the HTML input type for the field.
func (f ParameterField) InputType() string {
	switch f.Kind {
	case FieldCheckbox:
		return "checkbox"
	case FieldNumeric:
		return "number"
	default:
		return "text"
	}
}

// Checked reports whether a checkbox field is on.
func (f ParameterField) Checked() bool {
	return truthy(f.Value)
}

// ValueText returns the current value as text, "" when unset.
func (f ParameterField) ValueText() string {
	if isEmptyValue(f.Value) {
		return ""
	}
	return scalarText(f.Value)
}

// Placeholder returns the input placeholder: the helper text, or a textual
// default when no value is set.
func (f ParameterField) Placeholder() string {
	if f.Helper != "" {
		return f.Helper
	}
	if s, ok := f.Default.(string); ok && isEmptyValue(f.Value) {
		return s
	}
	return ""
}

// parameterSpec is what a descriptor key encodes.
type parameterSpec struct {
	index  string
	supKey string
}

// parseParameterKey decodes a descriptor key. A key without a number is
// parameter 1 and stores its value under "sup".
func parseParameterKey(key string) (parameterSpec, bool) {
	m := parameterKey.FindStringSubmatch(key)
	if m == nil {
		return parameterSpec{}, false
	}
	if m[1] == "" {
		return parameterSpec{index: "1", supKey: "sup"}, true
	}
	return parameterSpec{index: m[1], supKey: "sup" + m[1]}, true
}

// fieldKind derives the input kind from the key suffix.
func fieldKind(key string) FieldKind {
	lower := strings.ToLower(key)
	switch {
	case strings.HasSuffix(lower, "caseacocher"):
		return FieldCheckbox
	case strings.HasSuffix(lower, "numerique"):
		return FieldNumeric
	default:
		return FieldText
	}
}

// Parameters derives the configurable parameters of an exercise from its
// descriptor keys. Descriptors whose value is unset are skipped. Fields are
// ordered by key, comparing digit runs numerically.
func Parameters(ex *Exercise) []ParameterField {
	if ex == nil {
		return nil
	}

	var keys []string
	for key, v := range ex.fields {
		if strings.HasPrefix(key, ParameterPrefix) && truthy(v) {
			keys = append(keys, key)
		}
	}
	slices.SortFunc(keys, naturalCompare)

	fields := make([]ParameterField, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, buildField(ex, key))
	}
	return fields
}

func buildField(ex *Exercise, key string) ParameterField {
	f := ParameterField{Key: key, Kind: fieldKind(key), Label: "Paramètre"}

	var sup any
	hasSup := false
	if spec, ok := parseParameterKey(key); ok {
		f.SupKey = spec.supKey
		f.Label = "Paramètre " + spec.index
		sup, hasSup = ex.fields[spec.supKey]
	}

	raw := ex.fields[key]
	f.Default = raw
	supBool, supIsBool := sup.(bool)

	switch desc := raw.(type) {
	case []any:
		if len(desc) > 0 {
			f.Default = desc[0]
		} else {
			f.Default = nil
		}
		if f.Kind == FieldCheckbox {
			f.Label, f.Value, f.Helper = checkboxDescriptor(desc, f.Label)
			if hasSup && supIsBool {
				f.Value = supBool
			}
			break
		}
		f.Value = ""
		if len(desc) > 0 && desc[0] != nil {
			f.Value = desc[0]
		}
		if len(desc) > 1 {
			if s, ok := desc[1].(string); ok {
				f.Helper = s
			}
		}
		if hasSup && sup != nil {
			f.Value = sup
		}

	case bool:
		f.Value = desc
		if hasSup && supIsBool {
			f.Value = supBool
		}

	default:
		f.Value = raw
		if raw == nil {
			f.Value = ""
		}
		if hasSup && sup != nil {
			f.Value = sup
		}
	}
	return f
}

// checkboxDescriptor reads [label, default, helper...] checkbox descriptors.
// The default is the first boolean entry, else the truthiness of the second
// entry; the helper is the first string after the label.
func checkboxDescriptor(desc []any, fallbackLabel string) (label string, value bool, helper string) {
	label = fallbackLabel
	if len(desc) > 0 {
		if s, ok := desc[0].(string); ok {
			label = s
		}
	}

	found := false
	for _, entry := range desc {
		if b, ok := entry.(bool); ok {
			value, found = b, true
			break
		}
	}
	if !found && len(desc) > 1 {
		value = truthy(desc[1])
	}

	for _, entry := range desc[min(1, len(desc)):] {
		if s, ok := entry.(string); ok {
			helper = s
			break
		}
	}
	return label, value, helper
}

// ParseOverrides converts submitted form values into parameter overrides
// keyed by descriptor key. A checkbox missing from values is off. Numeric
// values become float64 when they parse as a finite number, "" when blank,
// and stay as the trimmed text otherwise. Text values are kept as submitted.
func ParseOverrides(fields []ParameterField, values map[string]string) map[string]any {
	overrides := make(map[string]any, len(fields))
	for _, f := range fields {
		v, ok := values[f.Key]
		switch f.Kind {
		case FieldCheckbox:
			overrides[f.Key] = ok && isChecked(v)
		case FieldNumeric:
			if !ok {
				continue
			}
			overrides[f.Key] = parseNumeric(v)
		default:
			if !ok {
				continue
			}
			overrides[f.Key] = v
		}
	}
	return overrides
}

func parseNumeric(v string) any {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return ""
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return trimmed
	}
	return n
}

func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes", "checked":
		return true
	}
	return false
}

// naturalCompare orders strings with embedded numbers the way people
// expect: "k2" < "k10". Non-digit runs compare case-insensitively first.
func naturalCompare(a, b string) int {
	for a != "" && b != "" {
		ca, restA := nextChunk(a)
		cb, restB := nextChunk(b)
		if c := compareChunk(ca, cb); c != 0 {
			return c
		}
		a, b = restA, restB
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

func nextChunk(s string) (chunk, rest string) {
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}
	return s[:i], s[i:]
}

func compareChunk(a, b string) int {
	if isDigit(a[0]) && isDigit(b[0]) {
		ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		if len(ta) != len(tb) {
			return len(ta) - len(tb)
		}
		if c := strings.Compare(ta, tb); c != 0 {
			return c
		}
		return len(a) - len(b)
	}
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
